package ui

import (
	"errors"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"nonprofit-assistant/attachment"
	"nonprofit-assistant/llm"
	"nonprofit-assistant/locale"
	"nonprofit-assistant/session"
	"nonprofit-assistant/transcript"
	"nonprofit-assistant/utils"
)

// composeEntry extends Entry to send on Ctrl+Enter and paste attachments
type composeEntry struct {
	widget.Entry
	onCtrlEnter func()
	// onPaste reports whether it consumed the paste; text is pasted otherwise
	onPaste func() bool
}

func newComposeEntry(onCtrlEnter func(), onPaste func() bool) *composeEntry {
	e := &composeEntry{onCtrlEnter: onCtrlEnter, onPaste: onPaste}
	e.MultiLine = true
	e.Wrapping = fyne.TextWrapWord
	e.SetMinRowsVisible(2)
	e.ExtendBaseWidget(e)
	return e
}

// TypedShortcut handles keyboard shortcuts
func (e *composeEntry) TypedShortcut(shortcut fyne.Shortcut) {
	if _, ok := shortcut.(*fyne.ShortcutPaste); ok && e.onPaste != nil {
		if e.onPaste() {
			return
		}
	}
	if ks, ok := shortcut.(*desktop.CustomShortcut); ok {
		if (ks.KeyName == fyne.KeyReturn || ks.KeyName == fyne.KeyEnter) &&
			ks.Modifier == fyne.KeyModifierShortcutDefault {
			if e.onCtrlEnter != nil {
				e.onCtrlEnter()
				return
			}
		}
	}
	e.Entry.TypedShortcut(shortcut)
}

// newSelectableText creates a read-only, selectable text widget
func newSelectableText(text string, align fyne.TextAlign) *widget.Label {
	label := widget.NewLabel(text)
	label.Wrapping = fyne.TextWrapWord
	label.Alignment = align
	label.Selectable = true
	return label
}

// ChatView represents the chat interface
type ChatView struct {
	app *App

	messages     *fyne.Container
	scroll       *container.Scroll
	input        *composeEntry
	sendButton   *widget.Button
	attachButton *widget.Button
	scanButton   *widget.Button
	pending      *fyne.Container
	progress     *widget.ProgressBarInfinite

	// rendered counts the transcript messages already on screen for identity
	rendered int
	identity string
}

func newChatView(app *App) *ChatView {
	v := &ChatView{app: app}
	app.chat.Subscribe(func() {
		fyne.Do(v.refresh)
	})
	return v
}

func (v *ChatView) build(ctx session.AppContext) fyne.CanvasObject {
	if !ctx.Authenticated() {
		v.messages = nil
		signIn := widget.NewButtonWithIcon(locale.T(ctx.Locale, locale.SignIn), theme.LoginIcon(), v.app.showLogin)
		signIn.Importance = widget.HighImportance
		prompt := widget.NewLabelWithStyle(locale.T(ctx.Locale, locale.ChatSignInRequired), fyne.TextAlignCenter, fyne.TextStyle{})
		prompt.Wrapping = fyne.TextWrapWord
		return container.NewCenter(container.NewVBox(prompt, container.NewCenter(signIn)))
	}

	v.messages = container.NewVBox()
	v.scroll = container.NewVScroll(v.messages)
	v.rendered = 0
	v.identity = ctx.Identity

	v.input = newComposeEntry(v.send, v.paste)
	v.input.SetPlaceHolder(locale.T(ctx.Locale, locale.ChatPlaceholder))

	v.sendButton = widget.NewButtonWithIcon(locale.T(ctx.Locale, locale.ChatSend), theme.MailSendIcon(), v.send)
	v.sendButton.Importance = widget.HighImportance
	v.attachButton = widget.NewButtonWithIcon("", theme.FileIcon(), v.attach)
	v.scanButton = widget.NewButtonWithIcon("", theme.MediaPhotoIcon(), v.scan)

	v.pending = container.NewVBox()
	v.progress = widget.NewProgressBarInfinite()
	v.progress.Hide()

	buttons := session.Mirror(ctx, []fyne.CanvasObject{container.NewHBox(v.attachButton, v.scanButton), v.sendButton})
	compose := container.NewBorder(nil, nil, buttons[0], buttons[1], v.input)

	v.refresh()
	return container.NewBorder(
		nil,
		container.NewVBox(v.progress, v.pending, compose),
		nil,
		nil,
		v.scroll,
	)
}

// refresh syncs the widgets with the transcript store
func (v *ChatView) refresh() {
	if v.messages == nil {
		return
	}
	ctx := v.app.session.Context()

	msgs := v.app.chat.Messages()
	if v.app.chat.Identity() != v.identity || len(msgs) < v.rendered {
		v.messages.RemoveAll()
		v.rendered = 0
		v.identity = v.app.chat.Identity()
	}
	if len(msgs) > v.rendered {
		for _, msg := range msgs[v.rendered:] {
			v.messages.Add(v.messageBubble(ctx, msg))
		}
		v.rendered = len(msgs)
		v.scroll.ScrollToBottom()
	}

	if v.app.chat.Busy() {
		v.progress.Show()
	} else {
		v.progress.Hide()
	}

	if v.app.chat.CanCompose() {
		v.input.Enable()
		v.sendButton.Enable()
		v.attachButton.Enable()
		v.scanButton.Enable()
	} else {
		v.input.Disable()
		v.sendButton.Disable()
		v.attachButton.Disable()
		v.scanButton.Disable()
	}

	v.pending.RemoveAll()
	if att, ok := v.app.chat.PendingAttachment(); ok {
		v.pending.Add(newAttachmentChip(v.app, att, "", v.app.chat.DiscardAttachment))
	}
}

// messageBubble renders one transcript message. The user's own messages sit
// on the trailing edge of the reading direction.
func (v *ChatView) messageBubble(ctx session.AppContext, msg llm.Message) fyne.CanvasObject {
	align := fyne.TextAlignLeading
	if ctx.Direction() == locale.RTL {
		align = fyne.TextAlignTrailing
	}

	author := locale.T(ctx.Locale, locale.AssistantLabel)
	fill := theme.Color(theme.ColorNameInputBackground)
	if msg.Role == llm.RoleUser {
		author = locale.T(ctx.Locale, locale.YouLabel)
		fill = tint(theme.Color(theme.ColorNamePrimary), 0x30)
	}

	body := container.NewVBox(widget.NewLabelWithStyle(author, align, fyne.TextStyle{Bold: true}))
	for _, att := range msg.Attachments {
		body.Add(newAttachmentChip(v.app, att, "", nil))
	}
	if msg.Text != "" {
		body.Add(newSelectableText(msg.Text, align))
	}
	if msg.Role == llm.RoleModel {
		text := msg.Text
		copyButton := widget.NewButtonWithIcon(locale.T(ctx.Locale, locale.CopyButton), theme.ContentCopyIcon(), func() {
			v.app.fyneApp.Clipboard().SetContent(text)
			v.app.logger.Info("Message text copied to clipboard")
		})
		copyButton.Importance = widget.LowImportance
		body.Add(v.app.row(copyButton))
	}

	bg := canvas.NewRectangle(fill)
	bg.CornerRadius = theme.InputRadiusSize()
	bubble := container.NewStack(bg, container.NewPadded(body))

	gap := canvas.NewRectangle(color.Transparent)
	gap.SetMinSize(fyne.NewSize(80, 0))
	userOnLeft := ctx.Direction() == locale.RTL
	if (msg.Role == llm.RoleUser) == userOnLeft {
		return container.NewBorder(nil, nil, nil, gap, bubble)
	}
	return container.NewBorder(nil, nil, gap, nil, bubble)
}

func (v *ChatView) send() {
	if !v.app.chat.CanCompose() {
		return
	}
	text := v.input.Text
	if _, ok := v.app.chat.PendingAttachment(); !ok && strings.TrimSpace(text) == "" {
		return
	}
	v.input.SetText("")

	loc := v.app.currentLocale()
	utils.SafeGoWithError(v.app.logger, "chatSend", func() error {
		ctx := v.app.requestContext()
		err := v.app.chat.Send(ctx, text, loc)
		if errors.Is(err, transcript.ErrEmptyMessage) || errors.Is(err, transcript.ErrBusy) {
			return nil
		}
		return err
	}, func(error) {
		fyne.Do(func() {
			v.app.showError(locale.T(loc, locale.ChatFailure))
		})
	})
}

func (v *ChatView) attach() {
	v.app.pickAttachment(chatExtensions, func(att attachment.Attachment, _ string) {
		if err := v.app.chat.Attach(att); err != nil {
			v.app.logger.Warn("Failed to attach file: %v", err)
		}
	}, v.app.attachmentFailed)
}

// paste attaches a bitmap or file from the clipboard
func (v *ChatView) paste() bool {
	if !v.app.chat.CanCompose() {
		return false
	}
	att, name, ok, err := v.app.pasteAttachment()
	if err != nil {
		v.app.logger.Warn("Failed to read clipboard: %v", err)
		return false
	}
	if !ok {
		return false
	}
	v.app.logger.Info("Attaching %s from clipboard", name)
	if err := v.app.chat.Attach(att); err != nil {
		v.app.logger.Warn("Failed to attach pasted content: %v", err)
		return false
	}
	return true
}

func (v *ChatView) scan() {
	v.app.openScanner(func(dataURL string) {
		att, err := attachment.ParseDataURL(dataURL)
		if err != nil {
			v.app.logger.Warn("Rejected captured image: %v", err)
			return
		}
		if err := v.app.chat.Attach(att); err != nil {
			v.app.logger.Warn("Failed to attach capture: %v", err)
		}
	})
}

// tint returns c with its alpha replaced
func tint(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
