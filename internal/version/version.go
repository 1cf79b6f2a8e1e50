package version

// Version is the semantic version of this build, overridable at link time.
var Version = "0.1.0"
