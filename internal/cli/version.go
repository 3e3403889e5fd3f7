package cli

// version is overridden at build time via
// -ldflags "-X github.com/fepegar/dcm2niiw/internal/cli.version=...".
var version = "dev"
