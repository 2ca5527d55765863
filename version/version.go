package version

// Version is set at build time with -ldflags "-X github.com/liamg/sweep/version.Version=..."
var Version string
