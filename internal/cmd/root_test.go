package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ppl-ai/perplexity-ask-go/config"
)

func TestRoot_FailsFastWithoutAPIKey(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "")

	rootCmd.SetArgs([]string{})
	err := rootCmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, config.ErrAPIKeyMissing)
}
