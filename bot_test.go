package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

func TestKeyboardLayout(t *testing.T) {
	require.NoError(t, checkKeyboard(keyboardLayout))
	require.Error(t, checkKeyboard([][]string{{"1", "sin"}}))

	seen := make(map[calc.Key]bool)
	for _, labels := range keyboardLayout {
		for _, label := range labels {
			k, err := calc.ParseKey(label)
			require.NoError(t, err)
			require.False(t, seen[k], "duplicate button %q", label)
			seen[k] = true
		}
	}
	for _, token := range []string{"0", "00", ".", "=", "AC", "C", "▶", "+/-", "%", "√", "M+", "M-", "MR", "MC", "GT", "GTC", "TAX+", "TAX-"} {
		k, err := calc.ParseKey(token)
		require.NoError(t, err)
		require.True(t, seen[k], "missing button %q", token)
	}
}

func TestNewKeyboard(t *testing.T) {
	kb := newKeyboard([][]string{{"7", "8"}, {"="}})
	require.Len(t, kb.InlineKeyboard, 2)
	require.Len(t, kb.InlineKeyboard[0], 2)
	require.Equal(t, "8", kb.InlineKeyboard[0][1].Text)
	require.NotNil(t, kb.InlineKeyboard[0][1].CallbackData)
	require.Equal(t, "8", *kb.InlineKeyboard[0][1].CallbackData)

	require.Len(t, botKeyboard.InlineKeyboard, len(keyboardLayout))
}

func TestSessionKey(t *testing.T) {
	require.Equal(t, "-100_42", sessionKey(-100, 42))
}

func TestHelpText(t *testing.T) {
	presets, err := ParsePresets([]byte(presetsYAML), calc.DefaultSettings())
	require.NoError(t, err)

	help := helpText(presets)
	require.Contains(t, help, "presets: default, office, science")
	require.Contains(t, help, "/close ")
	for command := range settingCommands {
		require.Contains(t, help, "/"+command+" ")
	}
}

func TestChatAllowed(t *testing.T) {
	require.True(t, chatAllowed(nil, 42))
	require.True(t, chatAllowed([]int64{-100, 42}, 42))
	require.False(t, chatAllowed([]int64{-100}, 42))
}
