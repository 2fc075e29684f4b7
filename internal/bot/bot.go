package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fairmoney-bot/internal/config"
	"fairmoney-bot/internal/model"
	"fairmoney-bot/internal/repository"
	"fairmoney-bot/internal/service"
)

// Bot aggregates the Telegram API with the rewards core. All conversation
// state lives on the user row, so the bot itself is stateless.
type Bot struct {
	api     *tgbotapi.BotAPI
	users   *repository.UserRepository
	rewards *service.RewardsService
	cfg     *config.Config
}

func New(token string, users *repository.UserRepository, rewards *service.RewardsService, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.WithField("account", api.Self.UserName).Info("bot authorized")

	return &Bot{api: api, users: users, rewards: rewards, cfg: cfg}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.WithError(err).Error("handle message")
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		log.WithFields(log.Fields{"user": msg.From.ID, "command": msg.Command()}).Info("command")
		switch msg.Command() {
		case "start":
			return b.handleStart(ctx, msg)
		default:
			return b.sendText(msg.Chat.ID, "Unknown command. Use the menu buttons below.")
		}
	}

	user, err := b.users.FindByTelegramID(ctx, msg.From.ID)
	if err != nil {
		return err
	}
	if user == nil {
		return b.sendPlain(msg.Chat.ID, "Please start the bot with /start command first.")
	}

	switch msg.Text {
	case btnJoined:
		return b.handleJoined(ctx, msg, user)
	case btnBalance:
		return b.handleBalance(ctx, msg, user)
	case btnInvite:
		return b.handleInvite(ctx, msg, user)
	case btnStatistics:
		return b.handleStatistics(ctx, msg, user)
	case btnWithdraw:
		return b.handleWithdraw(ctx, msg, user)
	case btnClaim:
		return b.handleClaim(ctx, msg, user)
	case btnAccountDetails:
		if b.cfg.AccountDetailsUI {
			return b.handleAccountDetails(ctx, msg, user)
		}
	}

	return b.handleFreeText(ctx, msg, user)
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	profile := service.Profile{
		TelegramID: msg.From.ID,
		FirstName:  msg.From.FirstName,
		LastName:   msg.From.LastName,
		Username:   msg.From.UserName,
	}

	user, referrer, created, err := b.rewards.Register(ctx, profile, msg.CommandArguments())
	if err != nil {
		return err
	}

	// Best-effort: a failed notification never rolls back the credit.
	if created && referrer != nil {
		b.notifyReferrer(referrer, user)
	}

	if !user.HasJoinedGroups {
		return b.promptToJoinGroups(msg.Chat.ID)
	}

	return b.sendText(msg.Chat.ID, "🏠 Welcome To Main Menu")
}

func (b *Bot) notifyReferrer(referrer, referred *model.TelegramUser) {
	text := fmt.Sprintf(
		"🎉 Congratulations! You have a new referral: %s.\n\n+%s has been added to your balance!",
		referred.FullName(), b.currency(b.cfg.ReferralBonus),
	)
	if _, err := b.api.Send(tgbotapi.NewMessage(referrer.TelegramID, text)); err != nil {
		log.WithError(err).WithField("referrer", referrer.TelegramID).Warn("referrer notification failed")
	}
}

func (b *Bot) handleJoined(ctx context.Context, msg *tgbotapi.Message, user *model.TelegramUser) error {
	already, err := b.rewards.MarkJoined(ctx, user)
	if err != nil {
		return err
	}
	if already {
		return b.sendText(msg.Chat.ID, "You have already joined our groups. Thank you!")
	}

	if !user.HasBankDetails() {
		return b.promptForBankDetails(ctx, msg.Chat.ID, user)
	}

	return b.sendText(msg.Chat.ID, "🏠 Welcome To Main Menu")
}

func (b *Bot) handleBalance(ctx context.Context, msg *tgbotapi.Message, user *model.TelegramUser) error {
	if !user.HasJoinedGroups {
		return b.promptToJoinGroups(msg.Chat.ID)
	}

	bank := "Not set yet. Please update your account details."
	if user.HasBankDetails() {
		bank = fmt.Sprintf("Account Number: %s\nBank Name: %s\nAccount Name: %s",
			user.BankAccountNumber, user.BankName, user.BankAccountName)
	}

	return b.sendText(msg.Chat.ID, fmt.Sprintf(
		"💰 Your Current Balance: %s\n\n👥 Total Referrals: %d User(s)\n\n🏦 Your Bank Details:\n%s",
		b.currency(user.Balance), user.ReferralCount, bank,
	))
}

func (b *Bot) handleStatistics(ctx context.Context, msg *tgbotapi.Message, user *model.TelegramUser) error {
	if !user.HasJoinedGroups {
		return b.promptToJoinGroups(msg.Chat.ID)
	}

	return b.sendText(msg.Chat.ID, fmt.Sprintf(
		"📊 Fairmoney Live Statistics 📊\n\n💰 Total Payouts: %s\n👥 Total Users: %d User(s)",
		b.currency(b.cfg.PlaceholderPayouts), b.cfg.PlaceholderUsers,
	))
}

func (b *Bot) handleAccountDetails(ctx context.Context, msg *tgbotapi.Message, user *model.TelegramUser) error {
	if !user.HasJoinedGroups {
		return b.promptToJoinGroups(msg.Chat.ID)
	}
	return b.promptForBankDetails(ctx, msg.Chat.ID, user)
}

func (b *Bot) promptToJoinGroups(chatID int64) error {
	var groups string
	for _, g := range b.cfg.RequiredGroups {
		groups += "@" + g + " 👉\n"
	}
	text := fmt.Sprintf("🔴 Join Our Channel To Proceed\n%s\n✅ After Joining, Click on Joined", groups)
	return b.sendWithMarkup(chatID, text, joinKeyboard())
}

func (b *Bot) promptForBankDetails(ctx context.Context, chatID int64, user *model.TelegramUser) error {
	if err := b.rewards.BeginBankDetails(ctx, user); err != nil {
		return err
	}
	return b.sendWithMarkup(chatID,
		"💎 Enter Bank Details 💎\n\n"+
			"Send your account number, bank name and account name on three lines:\n\n"+
			"0123456789\nGTBank\nJohn Doe\n\n"+
			"Your details will be used for processing withdrawals.",
		tgbotapi.NewRemoveKeyboard(true))
}

func (b *Bot) sendPlain(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainMenuKeyboard(b.cfg)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) currency(amount int64) string {
	return currency(b.cfg.CurrencySymbol, amount)
}
