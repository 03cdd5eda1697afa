package structures

// CliFlags carries command line overrides. Empty strings and a zero Port
// mean "not given" and leave the config file / environment value in place.
type CliFlags struct {
	ConfigPath string
	DebugMode  bool
	Host       string
	Port       int
	SiteDir    string
	DataDir    string
}
