package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainerBuilder_Build(t *testing.T) {
	t.Parallel()

	var fatal string
	b := NewContainerBuilder().WithLogFatalf(func(format string, args ...interface{}) {
		fatal = fmt.Sprintf(format, args...)
	})

	container := b.MustBuild(context.Background())
	require.Empty(t, fatal)
	require.NotNil(t, container)
}

func TestContainerBuilder_BuildAgent(t *testing.T) {
	t.Parallel()

	b := NewContainerBuilder()
	container, err := b.buildAgent(context.Background())
	require.NoError(t, err)
	require.NotNil(t, container)
}
