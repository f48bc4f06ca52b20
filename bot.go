package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

var (
	ErrClosed         = errors.New("bot has closed")
	ErrSessionExpired = errors.New("session has expired")
	ErrAlreadyStarted = errors.New("bot already started")
)

// keyboardLayout mirrors the desk calculator face. Button labels double as
// the callback data passed to calc.Engine.Press.
var keyboardLayout = [][]string{
	{"TAX-", "TAX+", "GTC"},
	{"%", "√", "▶", "GT"},
	{"MC", "MR", "M-", "M+", "÷"},
	{"+/-", "7", "8", "9", "×"},
	{"C", "4", "5", "6", "-"},
	{"AC", "1", "2", "3", "+"},
	{"0", "00", ".", "="},
}

var botKeyboard = newKeyboard(keyboardLayout)

func newKeyboard(layout [][]string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(layout))
	for _, labels := range layout {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(labels))
		for _, label := range labels {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, label))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// settingCommands maps bot commands to Session.Configure setting names.
var settingCommands = map[string]string{
	"mode":      "mode",
	"precision": "precision",
	"rounding":  "rounding",
	"places":    "places",
	"tax":       "tax",
}

type Bot struct {
	sessions   *Memcached[*Session]
	api        *tgbotapi.BotAPI
	config     *Config
	presets    Presets
	metrics    *botMetrics
	welcome    string
	help       string
	isStarted  atomic.Bool
	inShutdown atomic.Bool
	stopOnce   sync.Once
	isDone     chan struct{}
	logger     *log.Logger
}

const connectIntervalMax = 30 * time.Second

// connectAPI retries the bot API handshake with exponential backoff until
// it succeeds, attempts run out or ctx is done.
func connectAPI(ctx context.Context, token string, attempts int, logger *log.Logger) (*tgbotapi.BotAPI, error) {
	backoffCfg := backoff.NewExponentialBackOff()
	backoffCfg.MaxInterval = connectIntervalMax

	for attempt := 1; ; attempt++ {
		api, err := tgbotapi.NewBotAPI(token)
		if err == nil {
			return api, nil
		}
		if attempt >= attempts {
			return nil, fmt.Errorf("connect after %d attempts: %w", attempt, err)
		}

		sleep := backoffCfg.NextBackOff()
		if sleep == backoff.Stop {
			sleep = connectIntervalMax
		}
		logger.Printf("failed to connect telegram (attempt %d), retrying in %s, error: %v", attempt, sleep, err)

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func LoadBot(ctx context.Context, config *Config, presets Presets, logger *log.Logger) (*Bot, error) {
	if err := checkKeyboard(keyboardLayout); err != nil {
		return nil, err
	}

	api, err := connectAPI(ctx, config.BotToken, config.BotConnectAttempts, logger)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		api:     api,
		config:  config,
		presets: presets,
		metrics: newBotMetrics(),
		logger:  logger,
		isDone:  make(chan struct{}),
		welcome: fmt.Sprintf(
			"%s%s %s of inactivity.",
			"Welcome! Type /open to get started.\n",
			"Note: the session expires after",
			config.MemcachedTTLTimeout,
		),
		help: helpText(presets),
	}
	b.sessions = NewMemcached(
		config.MemcachedTTLTimeout,
		config.MemcachedCleanupTimeout,
		b.expireSession,
	)
	return b, nil
}

func helpText(presets Presets) string {
	return strings.Join([]string{
		"Help:",
		"/start - welcome message.",
		"/open [preset] - open new session (presets: " + strings.Join(presets.Names(), ", ") + ").",
		"/mode K|NON_K - constant calculation mode, clears the calculator.",
		"/precision 10|12|14 - significant digits.",
		"/rounding F|Cut|5/4 - result rounding.",
		"/places 0-4|Add2 - decimal places for Cut and 5/4.",
		"/tax <rate> - tax rate in percent.",
		"/settings - show current settings.",
		"/close - close the session.",
		"/help - send this message.",
	}, "\n")
}

// chatAllowed reports whether the bot serves chatID. An empty allow list
// serves every chat.
func chatAllowed(allowed []int64, chatID int64) bool {
	return len(allowed) == 0 || slices.Contains(allowed, chatID)
}

func sessionKey(chatID, userID int64) string {
	return fmt.Sprintf("%d_%d", chatID, userID)
}

func (b *Bot) expireSession(key string, session *Session) {
	b.logger.Printf("session %s (%s) expired", session.ID, key)
	b.metrics.recordSessionExpired(context.Background())
}

func (b *Bot) Run() error {
	if b.isStarted.Swap(true) {
		return ErrAlreadyStarted
	}
	defer close(b.isDone)

	updateConfig := tgbotapi.NewUpdate(b.config.BotOffset)
	updateConfig.Timeout = b.config.BotTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {
		if b.inShutdown.Load() && b.sessions.IsEmpty() {
			continue
		}

		if update.CallbackQuery != nil {
			if err := b.handleCallback(update.CallbackQuery); err != nil {
				b.logger.Printf("failed to handle key press, error: %v", err)
				continue
			}
		}

		if update.Message == nil || !update.Message.IsCommand() {
			continue
		}

		if err := b.handleCommand(update.Message); err != nil {
			b.logger.Printf("failed to send message, error: %v", err)
		}
	}

	return ErrClosed
}

func (b *Bot) createMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return nil
}

func (b *Bot) createKeyboard(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = botKeyboard

	_, err := b.api.Send(msg)
	if err != nil {
		return err
	}
	return nil
}

func (b *Bot) updateKeyboard(callback *tgbotapi.CallbackQuery, text string) error {
	if text == callback.Message.Text {
		return nil
	}

	edit := tgbotapi.NewEditMessageText(
		callback.Message.Chat.ID,
		callback.Message.MessageID,
		text,
	)
	edit.ReplyMarkup = &botKeyboard

	if _, err := b.api.Send(edit); err != nil {
		return err
	}
	return nil
}

func (b *Bot) answerCallback(callback *tgbotapi.CallbackQuery, text string) error {
	_, err := b.api.Request(tgbotapi.NewCallback(callback.ID, text))
	return err
}

func (b *Bot) handleCommand(command *tgbotapi.Message) error {
	if command.From == nil {
		return nil
	}
	chatID := command.Chat.ID
	if !chatAllowed(b.config.AllowedChats, chatID) {
		b.logger.Printf("ignore command from chat %d", chatID)
		return nil
	}
	key := sessionKey(chatID, command.From.ID)

	switch name := command.Command(); name {
	case "start":
		return b.createMessage(chatID, b.welcome)
	case "help":
		return b.createMessage(chatID, b.help)
	case "open":
		return b.openSession(chatID, key, command.CommandArguments())
	case "close":
		session, ok := b.sessions.Get(key)
		if !ok {
			return b.createMessage(chatID, "No open session. Try /open")
		}
		b.sessions.Delete(key)
		b.logger.Printf("session %s (%s) closed", session.ID, key)
		return b.createMessage(chatID, "Session closed. Type /open to start a new one.")
	case "settings":
		session, ok := b.sessions.Get(key)
		if !ok {
			return b.createMessage(chatID, "No open session. Try /open")
		}
		return b.createMessage(chatID, describeSettings(session.Settings()))
	default:
		setting, ok := settingCommands[name]
		if !ok {
			return b.createMessage(chatID, "Unknown command. Try /help")
		}

		session, ok := b.sessions.Get(key)
		if !ok {
			return b.createMessage(chatID, "No open session. Try /open")
		}

		settings, err := session.Configure(setting, command.CommandArguments())
		if err != nil {
			return b.createMessage(chatID, fmt.Sprintf("Cannot change %s: %v", setting, err))
		}
		b.sessions.Set(key, session)

		text := describeSettings(settings)
		if setting == "mode" {
			text += "\nThe calculator was cleared."
		}
		return b.createMessage(chatID, text)
	}
}

func (b *Bot) openSession(chatID int64, key, presetName string) error {
	if _, ok := b.sessions.Get(key); ok {
		return b.createMessage(chatID, "Your session is not expired!")
	}

	preset, settings, err := b.presets.Lookup(presetName)
	if err != nil {
		return b.createMessage(chatID, fmt.Sprintf("%v. Try /help", err))
	}

	session, err := NewSession(preset, settings, SessionConfig{
		PressRate:  b.config.PressRate,
		PressBurst: b.config.PressBurst,
	}, b.engineLogger())
	if err != nil {
		return err
	}

	err = b.createKeyboard(chatID, renderReadout(session.Readout(), settings))
	if err == nil {
		b.sessions.Set(key, session)
		b.metrics.recordSessionOpened(context.Background(), preset)
		b.logger.Printf("session %s (%s) opened with preset %q", session.ID, key, preset)
	}
	return err
}

func (b *Bot) engineLogger() *log.Logger {
	if !b.config.Debug {
		return nil
	}
	return b.logger
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil || !chatAllowed(b.config.AllowedChats, callback.Message.Chat.ID) {
		return b.answerCallback(callback, "")
	}
	key := sessionKey(callback.Message.Chat.ID, callback.From.ID)

	session, ok := b.sessions.Get(key)
	if !ok {
		if err := b.answerCallback(callback, ""); err != nil {
			return err
		}

		err := b.updateKeyboard(
			callback,
			"Your session has expired, please /open a new one.",
		)
		if err != nil {
			return err
		}
		return ErrSessionExpired
	}

	ctx := context.Background()
	start := time.Now()
	readout, err := session.Press(callback.Data)
	switch {
	case errors.Is(err, ErrThrottled):
		b.metrics.recordThrottled(ctx)
		return b.answerCallback(callback, "Slow down")
	case err != nil:
		if answerErr := b.answerCallback(callback, ""); answerErr != nil {
			return answerErr
		}
		return fmt.Errorf("session %s: %w", session.ID, err)
	}
	b.metrics.recordPress(ctx, callback.Data, readout, time.Since(start))

	if err := b.answerCallback(callback, feedback(readout)); err != nil {
		return err
	}

	err = b.updateKeyboard(callback, renderReadout(readout, session.Settings()))
	if err == nil {
		b.sessions.Set(key, session)
	}
	return err
}

// stopUpdates closes the long polling loop; the library panics when it is
// stopped twice.
func (b *Bot) stopUpdates() {
	b.stopOnce.Do(b.api.StopReceivingUpdates)
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.inShutdown.Store(true)
	err := b.sessions.Shutdown(ctx)
	b.stopUpdates()

	select {
	case <-b.isDone:
		if errors.Is(err, ErrMemcachedClosed) {
			return ErrClosed
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drops every session without waiting for it to expire. main falls
// back to it when Shutdown runs out of time.
func (b *Bot) Close() error {
	b.inShutdown.Store(true)
	err := b.sessions.Close()
	b.stopUpdates()
	<-b.isDone

	if errors.Is(err, ErrMemcachedClosed) {
		return ErrClosed
	}
	return err
}

// checkKeyboard reports a layout label the engine would reject.
func checkKeyboard(layout [][]string) error {
	for _, labels := range layout {
		for _, label := range labels {
			if _, err := calc.ParseKey(label); err != nil {
				return err
			}
		}
	}
	return nil
}
