package version

// Version is the current version of the argo-fxsim engine.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-fxsim/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "v1.0.0"

// GetVersion returns the current version of the engine.
func GetVersion() string {
	return Version
}
