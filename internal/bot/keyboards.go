package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fairmoney-bot/internal/config"
	"fairmoney-bot/internal/format"
)

const (
	btnJoined         = "Joined"
	btnBalance        = "💰 Balance"
	btnInvite         = "📩 Invite"
	btnStatistics     = "📊 Statistics"
	btnWithdraw       = "💸 Withdraw"
	btnClaim          = "🎁 Claim Bonus"
	btnAccountDetails = "🏦 Account Details"
)

func mainMenuKeyboard(cfg *config.Config) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBalance),
			tgbotapi.NewKeyboardButton(btnInvite),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnStatistics),
			tgbotapi.NewKeyboardButton(btnWithdraw),
		),
	}

	last := tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnClaim))
	if cfg.AccountDetailsUI {
		last = append(last, tgbotapi.NewKeyboardButton(btnAccountDetails))
	}
	rows = append(rows, last)

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func joinKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnJoined)),
	)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func currency(symbol string, amount int64) string {
	return format.Currency(symbol, amount)
}
