package handler

import (
	"time"

	"github.com/msomdec/jobboard/internal/domain"
)

type ContactDTO struct {
	Country  string `json:"country"`
	Phone    string `json:"phone"`
	Telegram string `json:"telegram"`
	WhatsApp string `json:"whatsapp"`
}

func toContactDTO(c domain.Contact) ContactDTO {
	return ContactDTO{Country: c.Country, Phone: c.Phone, Telegram: c.Telegram, WhatsApp: c.WhatsApp}
}

// UserDTO is the JSON representation of an account. The password hash,
// session token and signup address are never serialized.
type UserDTO struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Bio       string     `json:"bio"`
	Avatar    string     `json:"avatar"`
	Role      string     `json:"role"`
	Admin     bool       `json:"admin"`
	Banned    bool       `json:"banned"`
	Contact   ContactDTO `json:"contact"`
	CreatedAt string     `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		Role:      string(u.Role),
		Admin:     u.Admin,
		Banned:    u.Banned,
		Contact:   toContactDTO(u.Contact),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func toUserDTOs(users []domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

// OwnerDTO is the public owner summary embedded in jobs and comments.
type OwnerDTO struct {
	ID      int64      `json:"id"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Avatar  string     `json:"avatar"`
	Contact ContactDTO `json:"contact"`
}

func toOwnerDTO(s *domain.UserSummary) *OwnerDTO {
	if s == nil {
		return nil
	}
	return &OwnerDTO{ID: s.ID, Name: s.Name, Email: s.Email, Avatar: s.Avatar, Contact: toContactDTO(s.Contact)}
}

type JobDTO struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"ownerId"`
	Owner     *OwnerDTO `json:"owner,omitempty"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Tags      []string  `json:"tags"`
	EditedAt  *string   `json:"editedAt"`
	CreatedAt string    `json:"createdAt"`
}

func toJobDTO(j *domain.Job) JobDTO {
	tags := j.Tags
	if tags == nil {
		tags = []string{}
	}
	return JobDTO{
		ID:        j.ID,
		OwnerID:   j.OwnerID,
		Owner:     toOwnerDTO(j.Owner),
		Category:  j.Category,
		Title:     j.Title,
		Content:   j.Content,
		Type:      string(j.Type),
		Tags:      tags,
		EditedAt:  formatTime(j.EditedAt),
		CreatedAt: j.CreatedAt.Format(time.RFC3339),
	}
}

func toJobDTOs(jobs []domain.Job) []JobDTO {
	dtos := make([]JobDTO, len(jobs))
	for i := range jobs {
		dtos[i] = toJobDTO(&jobs[i])
	}
	return dtos
}

type ReactorDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toReactorDTOs(rs []domain.Reactor) []ReactorDTO {
	dtos := make([]ReactorDTO, len(rs))
	for i, r := range rs {
		dtos[i] = ReactorDTO{ID: r.ID, Name: r.Name}
	}
	return dtos
}

type CommentDTO struct {
	ID        int64        `json:"id"`
	JobID     int64        `json:"job"`
	Owner     *OwnerDTO    `json:"owner"`
	Content   string       `json:"content"`
	Likes     []ReactorDTO `json:"likes"`
	Dislikes  []ReactorDTO `json:"dislikes"`
	EditedAt  *string      `json:"editedAt"`
	CreatedAt string       `json:"createdAt"`
}

func toCommentDTO(c *domain.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		JobID:     c.JobID,
		Owner:     toOwnerDTO(c.Owner),
		Content:   c.Content,
		Likes:     toReactorDTOs(c.Likes),
		Dislikes:  toReactorDTOs(c.Dislikes),
		EditedAt:  formatTime(c.EditedAt),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toCommentDTOs(comments []domain.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i := range comments {
		dtos[i] = toCommentDTO(&comments[i])
	}
	return dtos
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
