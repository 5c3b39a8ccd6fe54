package config

// DefaultTool is the manifest tool looked up on PATH when nothing else is configured.
const DefaultTool = "mt"

// DefaultFile is the config file read when --config is not given.
const DefaultFile = "forceu8exe.yaml"

// Config holds the optional settings read from the YAML config file.
// - Tool: name or path of the manifest tool (mt.exe).
// - AssemblyIdentity: include an <assemblyIdentity> naming the target in generated manifests.
type Config struct {
	Tool             string `yaml:"tool"`
	AssemblyIdentity bool   `yaml:"assembly_identity"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{Tool: DefaultTool}
}
