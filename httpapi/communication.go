package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"parent-portal/domain"
	"parent-portal/services"
)

type createChatRequest struct {
	Participant1ID int64 `json:"participant1Id" validate:"required"`
	Participant2ID int64 `json:"participant2Id" validate:"required"`
}

type addMessageRequest struct {
	SenderID int64  `json:"senderId" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

type publishNewsRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	AuthorID int64  `json:"authorId" validate:"required"`
	Category string `json:"category"`
}

type createNotificationRequest struct {
	RecipientID     int64  `json:"recipientId" validate:"required"`
	Message         string `json:"message" validate:"required"`
	Type            string `json:"type" validate:"required"`
	RelatedEntityID string `json:"relatedEntityId"`
}

// CommunicationRouter serves chats, news and notifications under one
// prefix, the way the communication service owns all three.
func CommunicationRouter(
	chats services.IChatService,
	news services.INewsService,
	notifications services.INotificationService,
	log *slog.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/communication", func(r chi.Router) {
		mountChats(r, chats, log)
		mountNews(r, news, log)
		mountNotifications(r, notifications, log)
	})
	return r
}

func mountChats(r chi.Router, svc services.IChatService, log *slog.Logger) {
	r.Post("/chats", func(w http.ResponseWriter, req *http.Request) {
		var body createChatRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		chat, err := svc.CreateChat(req.Context(), body.Participant1ID, body.Participant2ID)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, chat)
	})

	r.Get("/chats/{id}", func(w http.ResponseWriter, req *http.Request) {
		view, err := svc.GetChat(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	})

	r.Get("/chats/byParticipant/{participantId}", func(w http.ResponseWriter, req *http.Request) {
		participantID, err := pathInt(req, "participantId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		views, err := svc.GetChatsByUser(req.Context(), participantID)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	})

	r.Post("/chats/{chatId}/messages", func(w http.ResponseWriter, req *http.Request) {
		var body addMessageRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		message, err := svc.AddMessage(req.Context(), chi.URLParam(req, "chatId"), body.SenderID, body.Content)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, message)
	})

	r.Patch("/chats/{chatId}/read/{userId}", func(w http.ResponseWriter, req *http.Request) {
		userID, err := pathInt(req, "userId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		if err := svc.MarkMessagesRead(req.Context(), chi.URLParam(req, "chatId"), userID); err != nil {
			writeError(log, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func mountNews(r chi.Router, svc services.INewsService, log *slog.Logger) {
	r.Post("/news", func(w http.ResponseWriter, req *http.Request) {
		var body publishNewsRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		published, err := svc.Publish(req.Context(), domain.News{
			Title:    body.Title,
			Content:  body.Content,
			AuthorID: body.AuthorID,
			Category: body.Category,
		})
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, published)
	})

	r.Get("/news", func(w http.ResponseWriter, req *http.Request) {
		items, err := svc.GetAll(req.Context())
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})

	r.Get("/news/byCategory", func(w http.ResponseWriter, req *http.Request) {
		items, err := svc.GetByCategory(req.Context(), req.URL.Query().Get("category"))
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})

	r.Get("/news/search", func(w http.ResponseWriter, req *http.Request) {
		limit := 20
		if raw := req.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		items, err := svc.Search(req.Context(), req.URL.Query().Get("q"), limit)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})

	r.Get("/news/{id}", func(w http.ResponseWriter, req *http.Request) {
		item, err := svc.GetByID(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	})

	r.Delete("/news/{id}", func(w http.ResponseWriter, req *http.Request) {
		if err := svc.Delete(chi.URLParam(req, "id")); err != nil {
			writeError(log, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func mountNotifications(r chi.Router, svc services.INotificationService, log *slog.Logger) {
	r.Post("/notifications", func(w http.ResponseWriter, req *http.Request) {
		var body createNotificationRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		created, err := svc.Create(req.Context(), domain.Notification{
			RecipientID:     body.RecipientID,
			Message:         body.Message,
			Type:            domain.NotificationType(body.Type),
			RelatedEntityID: body.RelatedEntityID,
		})
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	})

	r.Get("/notifications/byRecipient/{recipientId}", func(w http.ResponseWriter, req *http.Request) {
		recipientID, err := pathInt(req, "recipientId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		items, err := svc.GetByRecipient(recipientID)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})

	r.Get("/notifications/byRecipient/{recipientId}/unread", func(w http.ResponseWriter, req *http.Request) {
		recipientID, err := pathInt(req, "recipientId")
		if err != nil {
			writeError(log, w, err)
			return
		}
		items, err := svc.GetUnreadByRecipient(recipientID)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	})

	r.Get("/notifications/{id}", func(w http.ResponseWriter, req *http.Request) {
		item, err := svc.GetByID(chi.URLParam(req, "id"))
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	})

	r.Patch("/notifications/{id}/read", func(w http.ResponseWriter, req *http.Request) {
		item, err := svc.MarkRead(chi.URLParam(req, "id"))
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	})

	r.Delete("/notifications/{id}", func(w http.ResponseWriter, req *http.Request) {
		if err := svc.Delete(chi.URLParam(req, "id")); err != nil {
			writeError(log, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
