package mount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	config := []Mount{
		{Host: "/host/a", Container: "/data", Mode: ModeRW},
		{Host: "/host/cache", Container: "/cache", Mode: ModeRW},
	}
	cli := []Mount{
		{Host: "/host/b", Container: "/data", Mode: ModeRO},
		{Host: "/host/extra", Container: "/extra", Mode: ModeRW},
	}

	got := Merge(config, cli)
	assert.Equal(t, []Mount{
		{Host: "/host/b", Container: "/data", Mode: ModeRO},
		{Host: "/host/cache", Container: "/cache", Mode: ModeRW},
		{Host: "/host/extra", Container: "/extra", Mode: ModeRW},
	}, got)
}

func TestMerge_LastWinsAtFirstPosition(t *testing.T) {
	got := Merge([]Mount{
		{Host: "/1", Container: "/x", Mode: ModeRW},
		{Host: "/2", Container: "/y", Mode: ModeRW},
		{Host: "/3", Container: "/x/", Mode: ModeRO},
		{Host: "/4", Container: "/x", Mode: ModeRW},
	})

	assert.Equal(t, []Mount{
		{Host: "/4", Container: "/x", Mode: ModeRW},
		{Host: "/2", Container: "/y", Mode: ModeRW},
	}, got)
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge())
	assert.Empty(t, Merge(nil, []Mount{}))
}
