package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/appointment"
)

// Intent is a coarse classification of a free-text chat message.
type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentAvailability Intent = "availability"
	IntentBook         Intent = "book"
	IntentMyVisits     Intent = "my_visits"
	IntentCancel       Intent = "cancel"
	IntentUnknown      Intent = "unknown"
)

// ClassifyIntent maps a message to an intent by keyword. Earlier rules win,
// so "cancel my booking" classifies as cancel, not book.
func ClassifyIntent(message string) Intent {
	m := strings.ToLower(message)

	contains := func(keywords ...string) bool {
		for _, k := range keywords {
			if strings.Contains(m, k) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("cancel", "reschedule"):
		return IntentCancel
	case contains("my appointments", "my bookings", "my visits", "upcoming"):
		return IntentMyVisits
	case contains("available", "availability", "free slot", "slots", "timing", "opening"):
		return IntentAvailability
	case contains("book", "appointment", "visit", "see the doctor", "checkup"):
		return IntentBook
	case contains("hello", "hi ", "hey", "good morning", "good evening"):
		return IntentGreeting
	}
	return IntentUnknown
}

// ChatService answers the booking-assistant endpoint: classify the message,
// then dispatch to the matching read path and phrase a reply.
type ChatService struct {
	scheduler *SchedulerService
	apptSvc   *AppointmentService
	log       *zap.Logger
}

func NewChatService(scheduler *SchedulerService, apptSvc *AppointmentService, log *zap.Logger) *ChatService {
	return &ChatService{scheduler: scheduler, apptSvc: apptSvc, log: log}
}

type ChatReply struct {
	Intent  Intent      `json:"intent"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (s *ChatService) Handle(ctx context.Context, caller *domain.Claims, message string) (*ChatReply, error) {
	intent := ClassifyIntent(message)
	s.log.Debug("chat message classified",
		zap.String("intent", string(intent)),
		zap.String("user_id", caller.UserID.String()))

	switch intent {
	case IntentGreeting:
		return &ChatReply{
			Intent:  intent,
			Message: "Hello! I can help you find available slots, book an appointment, or list your upcoming visits.",
		}, nil

	case IntentAvailability, IntentBook:
		doctors, err := s.scheduler.ListDoctors(ctx)
		if err != nil {
			return nil, err
		}
		msg := "Here are our available doctors. Pick one and a date to see open slots."
		if intent == IntentBook {
			msg = "To book, choose a doctor below, then a date and one of the open slots."
		}
		return &ChatReply{Intent: intent, Message: msg, Data: doctors}, nil

	case IntentMyVisits:
		paged, err := s.apptSvc.List(ctx, caller, &appointment.ListQuery{
			DateFrom: timePtr(time.Now()),
			Page:     1,
			PageSize: 10,
		})
		if err != nil {
			return nil, err
		}
		return &ChatReply{
			Intent:  intent,
			Message: "Here are your upcoming appointments.",
			Data:    paged.Appointments,
		}, nil

	case IntentCancel:
		return &ChatReply{
			Intent:  intent,
			Message: "To cancel, open your appointments list and cancel the visit there.",
		}, nil
	}

	return &ChatReply{
		Intent:  IntentUnknown,
		Message: "Sorry, I did not understand. Try asking about available slots or booking an appointment.",
	}, nil
}

func timePtr(t time.Time) *time.Time { return &t }
