package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrConflict means another process is consuming this bot's update stream.
var ErrConflict = errors.New("conflict: another bot instance is polling")

type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

func NewClient(token string) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    fmt.Sprintf("https://api.telegram.org/bot%s", token),
	}
}

func (c *Client) call(method string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/"+method, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if !apiResp.OK {
		if apiResp.ErrorCode == http.StatusConflict {
			return nil, fmt.Errorf("%w: %s", ErrConflict, apiResp.Description)
		}
		return nil, fmt.Errorf("telegram: %s", apiResp.Description)
	}

	return apiResp.Result, nil
}

func (c *Client) GetUpdates(offset int64, timeoutSec int) ([]Update, error) {
	result, err := c.call("getUpdates", GetUpdatesRequest{Offset: offset, Timeout: timeoutSec})
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("unmarshal updates: %w", err)
	}
	return updates, nil
}

func (c *Client) SendMessage(chatID int64, text, parseMode string, replyMarkup interface{}) (int64, error) {
	req := SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	}

	if replyMarkup != nil {
		rm, err := json.Marshal(replyMarkup)
		if err != nil {
			return 0, err
		}
		req.ReplyMarkup = rm
	}

	result, err := c.call("sendMessage", req)
	if err != nil {
		return 0, err
	}

	var msg MessageResult
	json.Unmarshal(result, &msg)
	return msg.MessageID, nil
}

func (c *Client) SendDocument(chatID int64, fileID, caption, parseMode string, replyMarkup interface{}) (int64, error) {
	req := SendDocumentRequest{ChatID: chatID, Document: fileID, Caption: caption, ParseMode: parseMode}
	if replyMarkup != nil {
		rm, err := json.Marshal(replyMarkup)
		if err != nil {
			return 0, err
		}
		req.ReplyMarkup = rm
	}
	return c.sendFile("sendDocument", req)
}

func (c *Client) SendPhoto(chatID int64, fileID, caption, parseMode string, replyMarkup interface{}) (int64, error) {
	req := SendPhotoRequest{ChatID: chatID, Photo: fileID, Caption: caption, ParseMode: parseMode}
	if replyMarkup != nil {
		rm, err := json.Marshal(replyMarkup)
		if err != nil {
			return 0, err
		}
		req.ReplyMarkup = rm
	}
	return c.sendFile("sendPhoto", req)
}

func (c *Client) SendVideo(chatID int64, fileID, caption, parseMode string, replyMarkup interface{}) (int64, error) {
	req := SendVideoRequest{ChatID: chatID, Video: fileID, Caption: caption, ParseMode: parseMode}
	if replyMarkup != nil {
		rm, err := json.Marshal(replyMarkup)
		if err != nil {
			return 0, err
		}
		req.ReplyMarkup = rm
	}
	return c.sendFile("sendVideo", req)
}

func (c *Client) sendFile(method string, req interface{}) (int64, error) {
	result, err := c.call(method, req)
	if err != nil {
		return 0, err
	}

	var msg MessageResult
	json.Unmarshal(result, &msg)
	return msg.MessageID, nil
}

func (c *Client) EditMessageCaption(chatID, messageID int64, caption, parseMode string, replyMarkup interface{}) error {
	req := EditMessageCaptionRequest{
		ChatID:    chatID,
		MessageID: messageID,
		Caption:   caption,
		ParseMode: parseMode,
	}

	if replyMarkup != nil {
		rm, err := json.Marshal(replyMarkup)
		if err != nil {
			return err
		}
		req.ReplyMarkup = rm
	}

	_, err := c.call("editMessageCaption", req)
	return err
}

func (c *Client) AnswerCallbackQuery(callbackID, text string, showAlert bool) error {
	req := AnswerCallbackQueryRequest{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       showAlert,
	}
	_, err := c.call("answerCallbackQuery", req)
	return err
}

func (c *Client) GetChatMember(chatID, userID int64) (*ChatMember, error) {
	result, err := c.call("getChatMember", GetChatMemberRequest{ChatID: chatID, UserID: userID})
	if err != nil {
		return nil, err
	}

	var member ChatMember
	if err := json.Unmarshal(result, &member); err != nil {
		return nil, fmt.Errorf("unmarshal chat member: %w", err)
	}
	return &member, nil
}

func (c *Client) DeleteMessage(chatID, messageID int64) error {
	req := struct {
		ChatID    int64 `json:"chat_id"`
		MessageID int64 `json:"message_id"`
	}{ChatID: chatID, MessageID: messageID}
	_, err := c.call("deleteMessage", req)
	return err
}

func (c *Client) DeleteWebhook(dropPendingUpdates bool) error {
	_, err := c.call("deleteWebhook", DeleteWebhookRequest{DropPendingUpdates: dropPendingUpdates})
	return err
}
