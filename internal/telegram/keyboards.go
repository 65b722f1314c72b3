package telegram

import "fmt"

func CompletionKeyboard(deadlineID uint) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{{Text: "✅ Mark as Completed", CallbackData: fmt.Sprintf("complete_%d", deadlineID)}},
		},
	}
}
