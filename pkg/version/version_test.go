package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wplibs/nodata/pkg/version"
)

func TestInfo_Short(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		info version.Info
		want string
	}{
		"release": {
			info: version.Info{Version: "v1.2.0", Revision: "abc1234"},
			want: "v1.2.0",
		},
		"development": {
			info: version.Info{Revision: "abc1234"},
			want: "abc1234",
		},
		"dirty tree": {
			info: version.Info{Revision: "abc1234", Modified: true},
			want: "abc1234-dirty",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.info.Short())
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	info := version.Get()
	assert.NotEmpty(t, info.Short())
	assert.NotEmpty(t, info.Go)
	assert.Contains(t, info.String(), info.Platform)
}
