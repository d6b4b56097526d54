package model

import "time"

// GroupChat is the communication channel attached to a tenancy. Message
// delivery lives outside this service; the records exist so chats can be
// provisioned atomically with their tenancy.
type GroupChat struct {
	ID   uint   `json:"group_chat_id" gorm:"primaryKey"`
	Name string `json:"group_name" gorm:"type:varchar(255);not null"`
}

// Message is a chat message within a group chat.
type Message struct {
	ID          uint      `json:"message_id" gorm:"primaryKey"`
	GroupChatID uint      `json:"group_chat_id" gorm:"index;not null"`
	SenderID    uint      `json:"sender_id" gorm:"index;not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	CreatedAt   time.Time `json:"timestamp"`

	// Relations
	GroupChat GroupChat `json:"-" gorm:"foreignKey:GroupChatID"`
	Sender    User      `json:"-" gorm:"foreignKey:SenderID"`
}
