package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"household/internal/domain/notification"
)

func TestHandleListUnread(t *testing.T) {
	analysisID := int64(3)
	repo := &MockNotificationRepo{
		ListUnreadFunc: func(ctx context.Context, userID int64) ([]*notification.Notification, error) {
			return []*notification.Notification{
				{ID: 1, UserID: userID, AnalysisID: &analysisID, Message: "주간 분석이 준비되었습니다"},
			}, nil
		},
	}
	handler := NewNotificationHandler(notification.NewService(repo, "분석이 준비되었습니다"))

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/unread", nil)
	req = req.WithContext(withUser(req.Context(), 1))
	rr := httptest.NewRecorder()
	handler.HandleListUnread(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %v want %v", rr.Code, http.StatusOK)
	}
	var resp NotificationListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || *resp.Notifications[0].AnalysisID != 3 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandleMarkRead(t *testing.T) {
	repo := &MockNotificationRepo{
		MarkReadFunc: func(ctx context.Context, id, userID int64) error {
			if id != 1 || userID != 1 {
				return notification.ErrNotificationNotFound
			}
			return nil
		},
	}
	handler := NewNotificationHandler(notification.NewService(repo, "분석이 준비되었습니다"))

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{name: "Own", id: "1", expectedStatus: http.StatusNoContent},
		{name: "Other", id: "2", expectedStatus: http.StatusNotFound},
		{name: "Invalid", id: "x", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/api/notifications/"+tt.id+"/read", nil)
			req.SetPathValue("id", tt.id)
			req = req.WithContext(withUser(req.Context(), 1))
			rr := httptest.NewRecorder()
			handler.HandleMarkRead(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}
