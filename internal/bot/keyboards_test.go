package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fairmoney-bot/internal/config"
)

func TestMainMenuKeyboard(t *testing.T) {
	keyboard := mainMenuKeyboard(&config.Config{})

	assert.Len(t, keyboard.Keyboard, 3)
	assert.Equal(t, btnBalance, keyboard.Keyboard[0][0].Text)
	assert.Equal(t, btnInvite, keyboard.Keyboard[0][1].Text)
	assert.Equal(t, btnStatistics, keyboard.Keyboard[1][0].Text)
	assert.Equal(t, btnWithdraw, keyboard.Keyboard[1][1].Text)
	assert.Equal(t, btnClaim, keyboard.Keyboard[2][0].Text)
	assert.Len(t, keyboard.Keyboard[2], 1)
	assert.True(t, keyboard.ResizeKeyboard)
}

func TestMainMenuKeyboard_AccountDetailsToggle(t *testing.T) {
	keyboard := mainMenuKeyboard(&config.Config{AccountDetailsUI: true})

	assert.Len(t, keyboard.Keyboard[2], 2)
	assert.Equal(t, btnAccountDetails, keyboard.Keyboard[2][1].Text)
}

func TestJoinKeyboard(t *testing.T) {
	keyboard := joinKeyboard()

	assert.Len(t, keyboard.Keyboard, 1)
	assert.Equal(t, btnJoined, keyboard.Keyboard[0][0].Text)
	assert.True(t, keyboard.OneTimeKeyboard)
}
