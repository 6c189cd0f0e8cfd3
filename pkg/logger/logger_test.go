package logger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paywallet/walletgo/internal/config"
)

func TestInitLogger(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "error"} {
		t.Run("Level "+lvl, func(t *testing.T) {
			require.NoError(t, InitLogger(&config.Config{LogLvl: lvl}))
		})
	}

	t.Run("Unknown level is rejected", func(t *testing.T) {
		err := InitLogger(&config.Config{LogLvl: "chatty"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported log lvl")
	})
}
