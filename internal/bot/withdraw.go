package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fairmoney-bot/internal/format"
	"fairmoney-bot/internal/model"
	"fairmoney-bot/internal/service"
)

func (b *Bot) handleWithdraw(ctx context.Context, msg *tgbotapi.Message, user *model.TelegramUser) error {
	err := b.rewards.BeginWithdrawal(ctx, user, time.Now())
	switch {
	case err == nil:
		return b.sendWithMarkup(msg.Chat.ID, fmt.Sprintf(
			"💸 Withdrawal Request\n\n"+
				"Your current balance: %s\n\n"+
				"Minimum withdrawal: %s\n"+
				"Maximum withdrawal: %s\n\n"+
				"Please enter the amount you want to withdraw (%sXXXX):",
			b.currency(user.Balance),
			b.currency(b.cfg.MinWithdrawal),
			b.currency(b.cfg.MaxWithdrawal),
			b.cfg.CurrencySymbol,
		), tgbotapi.NewRemoveKeyboard(true))

	case errors.Is(err, service.ErrNotJoined):
		return b.promptToJoinGroups(msg.Chat.ID)

	case errors.Is(err, service.ErrWithdrawalsClosed):
		return b.sendText(msg.Chat.ID,
			"⚠️ Withdrawals are only available on weekends (Saturday and Sunday).\n"+
				"Please try again on the weekend.")

	case errors.Is(err, service.ErrBalanceTooLow):
		return b.sendText(msg.Chat.ID, fmt.Sprintf(
			"⚠️ Must Own Atleast %s To Make Withdrawal\n\n"+
				"Your current balance: %s\n\n"+
				"Join Fairmoney on Telegram and make %s20k - %s50k daily with your phone, it's free to join\n\n"+
				"Withdrawal is every Saturday, click on the link now to join, thank me later\n%s",
			b.currency(b.cfg.MinWithdrawal),
			b.currency(user.Balance),
			b.cfg.CurrencySymbol, b.cfg.CurrencySymbol,
			format.ReferralLink(b.api.Self.UserName, user.TelegramID),
		))

	case errors.Is(err, service.ErrBankDetailsRequired):
		return b.promptForBankDetails(ctx, msg.Chat.ID, user)

	default:
		return err
	}
}

func (b *Bot) handleClaim(ctx context.Context, msg *tgbotapi.Message, user *model.TelegramUser) error {
	err := b.rewards.ClaimBonus(ctx, user, time.Now())

	var cooldown *service.CooldownError
	switch {
	case err == nil:
		return b.sendText(msg.Chat.ID, fmt.Sprintf(
			"Congratulations 🎉🎉🎉\n"+
				"You Have Just Earned\n"+
				"+%s 👈\n\n"+
				"News: @%s\n"+
				"Help: @%s\n\n"+
				"⚠️ Wait before clicking again. Do not click too fast to avoid getting banned",
			b.currency(b.cfg.ClaimBonus), b.cfg.NewsChannel, b.cfg.SupportChannel,
		))

	case errors.Is(err, service.ErrNotJoined):
		return b.promptToJoinGroups(msg.Chat.ID)

	case errors.As(err, &cooldown):
		mins := cooldown.RemainingMinutes()
		suffix := "s"
		if mins == 1 {
			suffix = ""
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf(
			"⚠️ Please wait %d more minute%s before claiming again.\n\nLast claimed: %s",
			mins, suffix, format.Time(cooldown.LastClaim),
		))

	default:
		return err
	}
}

// handleFreeText routes non-button text by the persisted conversation state.
func (b *Bot) handleFreeText(ctx context.Context, msg *tgbotapi.Message, user *model.TelegramUser) error {
	switch user.State {
	case model.StateAwaitingBankDetails:
		return b.handleBankDetailsInput(ctx, msg, user)
	case model.StateAwaitingWithdrawalAmount:
		return b.handleWithdrawalAmountInput(ctx, msg, user)
	default:
		return b.sendText(msg.Chat.ID, "I didn't understand that. Use the menu buttons below.")
	}
}

func (b *Bot) handleBankDetailsInput(ctx context.Context, msg *tgbotapi.Message, user *model.TelegramUser) error {
	details, err := b.rewards.SetBankDetails(ctx, user, msg.Text)
	if errors.Is(err, service.ErrInvalidBankDetails) {
		// Stay in entry mode; the user resends in a recognized format.
		return b.sendWithMarkup(msg.Chat.ID,
			"❌ I couldn't read those bank details.\n\n"+
				"Send them on three lines:\n0123456789\nGTBank\nJohn Doe\n\n"+
				"Or on one line: 0123456789 GTBank John Doe",
			tgbotapi.NewRemoveKeyboard(true))
	}
	if err != nil {
		return err
	}

	extra := ""
	if user.Balance >= b.cfg.MinWithdrawal {
		extra = "\n\nYou have enough balance to withdraw. Click the \"Withdraw\" button to proceed."
	}

	return b.sendText(msg.Chat.ID, fmt.Sprintf(
		"📊 Your Bank Details:\n"+
			"Account Number: %s\n"+
			"Bank Name: %s\n"+
			"Account Name: %s\n\n"+
			"✅ These details will be used for withdrawals.%s",
		details.AccountNumber, details.BankName, details.AccountName, extra,
	))
}

func (b *Bot) handleWithdrawalAmountInput(ctx context.Context, msg *tgbotapi.Message, user *model.TelegramUser) error {
	request, err := b.rewards.SubmitWithdrawal(ctx, user, msg.Text)
	switch {
	case err == nil:
		return b.sendText(msg.Chat.ID, fmt.Sprintf(
			"✅ Your withdrawal request has been submitted successfully!\n\n"+
				"Amount: %s\n"+
				"Date: %s\n"+
				"Status: Pending\n\n"+
				"Your request will be processed within 24 hours.\n"+
				"You will receive a notification once it's processed.",
			b.currency(request.Amount), format.Date(request.CreatedAt),
		))

	case errors.Is(err, service.ErrInvalidAmount):
		return b.sendText(msg.Chat.ID, "Please enter a valid amount (numbers only).")

	case errors.Is(err, service.ErrAmountTooLow):
		return b.sendText(msg.Chat.ID,
			fmt.Sprintf("Minimum withdrawal amount is %s.", b.currency(b.cfg.MinWithdrawal)))

	case errors.Is(err, service.ErrAmountTooHigh):
		return b.sendText(msg.Chat.ID,
			fmt.Sprintf("Maximum withdrawal amount is %s.", b.currency(b.cfg.MaxWithdrawal)))

	case errors.Is(err, service.ErrInsufficientBalance):
		return b.sendText(msg.Chat.ID, fmt.Sprintf(
			"You don't have enough balance for this withdrawal.\nYour current balance: %s",
			b.currency(user.Balance)))

	default:
		return err
	}
}
