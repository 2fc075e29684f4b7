package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"

	"fairmoney-bot/internal/format"
	"fairmoney-bot/internal/model"
)

func (b *Bot) handleInvite(ctx context.Context, msg *tgbotapi.Message, user *model.TelegramUser) error {
	if !user.HasJoinedGroups {
		return b.promptToJoinGroups(msg.Chat.ID)
	}

	link := format.ReferralLink(b.api.Self.UserName, user.TelegramID)
	text := fmt.Sprintf(
		"👥 Total Refers = %d User(s)\n\n"+
			"📩 Invite To Earn %s Per Invite\n\n"+
			"📲 Your invite link:\n%s\n\n"+
			"Share this link with your friends and earn when they join!",
		user.ReferralCount, b.currency(b.cfg.ReferralBonus), link,
	)

	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		log.WithError(err).Warn("invite qr generation failed")
		return b.sendText(msg.Chat.ID, text)
	}

	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "invite.png", Bytes: png})
	photo.Caption = text
	photo.ReplyMarkup = mainMenuKeyboard(b.cfg)
	_, err = b.api.Send(photo)
	return err
}
