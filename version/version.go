package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/nodegraph/errors"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// ProtocolVersion is the websocket message protocol spoken by the server.
// Clients announce theirs in the hello message.
const ProtocolVersion = "1.1.0"

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	Protocol   string `json:"protocol"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		Protocol:   ProtocolVersion,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Version != "dev" {
		return fmt.Sprintf("nodegraph %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("nodegraph dev (commit %s, built %s)", i.CommitHash, i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// Compatible checks a client protocol version against ProtocolVersion.
// Same major version is required and the client may not be newer than the
// server.
func Compatible(client string) error {
	clientVer, err := semver.NewVersion(client)
	if err != nil {
		return errors.Wrapf(err, "invalid protocol version %q", client)
	}

	constraint, err := semver.NewConstraint(fmt.Sprintf("^%d.0.0, <= %s", semver.MustParse(ProtocolVersion).Major(), ProtocolVersion))
	if err != nil {
		return errors.Wrap(err, "invalid protocol constraint")
	}

	if !constraint.Check(clientVer) {
		return errors.Newf("client speaks protocol %s, server speaks %s", client, ProtocolVersion)
	}
	return nil
}
