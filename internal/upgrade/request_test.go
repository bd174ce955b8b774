package upgrade

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	return Request{AppName: "Foo", AppPackage: "com.foo", CurrentVersion: "0.72.0", TargetVersion: "0.74.1"}
}

func TestRequest_Validate(t *testing.T) {
	require.NoError(t, validRequest().Validate())

	cases := []struct {
		name   string
		mutate func(*Request)
		want   string
	}{
		{"missing app name", func(r *Request) { r.AppName = "" }, "app name"},
		{"missing package", func(r *Request) { r.AppPackage = " " }, "app package"},
		{"missing current", func(r *Request) { r.CurrentVersion = "" }, "current version"},
		{"missing target", func(r *Request) { r.TargetVersion = "" }, "target version"},
		{"bad app name", func(r *Request) { r.AppName = "my app" }, "my app"},
		{"bad package", func(r *Request) { r.AppPackage = "foo" }, "foo"},
		{"placeholder in name", func(r *Request) { r.AppName = "MyRnDiffApp" }, "MyRnDiffApp"},
		{"placeholder in lowercase name", func(r *Request) { r.AppName = "xrndiffapp" }, "xrndiffapp"},
		{"placeholder in package", func(r *Request) { r.AppPackage = "com.rndiffapp.foo" }, "com.rndiffapp.foo"},
		{"placeholder in package any case", func(r *Request) { r.AppPackage = "com.RnDiffApp.foo" }, "template name rndiffapp"},
		{"bad version", func(r *Request) { r.TargetVersion = "latest" }, "latest"},
		{"not newer", func(r *Request) { r.TargetVersion = "0.72.0" }, "0.72.0"},
		{"older", func(r *Request) { r.TargetVersion = "0.71.9" }, "0.71.9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRequest))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRequest_BranchName(t *testing.T) {
	assert.Equal(t, "upgrade-0.72.0-to-0.74.1", validRequest().BranchName())
}

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"0.72.0", "0.72.0", 0},
		{"0.72.0", "0.74.0", -1},
		{"0.74.10", "0.74.9", 1},
		{"1.0.0", "0.99.99", 1},
		{"0.74.0-rc.1", "0.74.0", -1},
		{"0.74.0", "0.74.0-rc.2", 1},
		{"0.74.0-rc.2", "0.74.0-rc.10", -1},
		{"0.74.0-rc.1", "0.74.0-rc.1.1", -1},
	}
	for _, tc := range cases {
		got, err := CompareVersions(tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s vs %s", tc.a, tc.b)
	}

	_, err := CompareVersions("0.72", "0.74.0")
	assert.Error(t, err)
}

func TestNormalizeVersion(t *testing.T) {
	assert.Equal(t, "0.72.4", NormalizeVersion("^0.72.4"))
	assert.Equal(t, "0.72.4", NormalizeVersion("~0.72.4"))
	assert.Equal(t, "0.72.4", NormalizeVersion(" v0.72.4 "))
	assert.Equal(t, "0.72.4", NormalizeVersion("0.72.4"))
}
