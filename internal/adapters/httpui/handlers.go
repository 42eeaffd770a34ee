package httpui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iaas-dront/frontend-meet2/internal/app/session"
	"github.com/iaas-dront/frontend-meet2/internal/core"
	"github.com/iaas-dront/frontend-meet2/internal/domain"
)

type handlers struct {
	eng *session.Engine
}

// viewDTO carries stream handles as ids; the rendering side resolves them
// against its own media elements.
type viewDTO struct {
	Main        string            `json:"main,omitempty"`
	Self        string            `json:"self,omitempty"`
	SelfVisible bool              `json:"selfVisible"`
	Grid        map[string]string `json:"grid"`
	Hidden      []string          `json:"hidden,omitempty"`
}

type snapshotDTO struct {
	Room         string               `json:"room"`
	Self         domain.User          `json:"self"`
	Participants []domain.Participant `json:"participants"`
	Messages     []domain.ChatMessage `json:"messages"`
	Controls     domain.ControlState  `json:"controls"`
	Focused      string               `json:"focused,omitempty"`
	View         viewDTO              `json:"view"`
	Summary      string               `json:"summary,omitempty"`
	Ended        bool                 `json:"ended"`
}

func streamID(s core.MediaStream) string {
	if s == nil {
		return ""
	}
	return s.ID()
}

func toDTO(s session.Snapshot) snapshotDTO {
	view := viewDTO{
		Main:        streamID(s.View.Main),
		Self:        streamID(s.View.Self),
		SelfVisible: s.View.SelfVisible,
		Grid:        make(map[string]string, len(s.View.Grid)),
	}
	for id, stream := range s.View.Grid {
		view.Grid[string(id)] = streamID(stream)
	}
	for id := range s.View.Hidden {
		view.Hidden = append(view.Hidden, string(id))
	}
	return snapshotDTO{
		Room:         string(s.Room),
		Self:         s.Self,
		Participants: s.Participants,
		Messages:     s.Messages,
		Controls:     s.Controls,
		Focused:      string(s.Focused),
		View:         view,
		Summary:      s.Summary,
		Ended:        s.Ended,
	}
}

func (h *handlers) snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, toDTO(h.eng.Snapshot()))
}

func (h *handlers) sendMessage(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	// Empty or blank text is a silent no-op, not an error.
	h.eng.SendMessage(req.Message)
	c.Status(http.StatusAccepted)
}

func (h *handlers) toggleControl(c *gin.Context) {
	var req struct {
		Confirmed bool `json:"confirmed"`
	}
	// Body is optional; absence means no consent granted.
	_ = c.ShouldBindJSON(&req)
	consent := core.ConfirmerFunc(func(string) bool { return req.Confirmed })

	switch c.Param("control") {
	case "mute":
		h.eng.ToggleMute(consent)
	case "camera":
		h.eng.ToggleCamera(consent)
	case "hand":
		h.eng.ToggleHand()
	case "share":
		h.eng.ToggleSharing()
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown control"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"controls": h.eng.Snapshot().Controls})
}

func (h *handlers) focus(c *gin.Context) {
	var req struct {
		PeerID string `json:"peerId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	h.eng.Focus(domain.PeerID(req.PeerID))
	c.JSON(http.StatusOK, gin.H{"focused": string(h.eng.Snapshot().Focused)})
}

func (h *handlers) end(c *gin.Context) {
	h.eng.End()
	c.JSON(http.StatusOK, gin.H{"ended": true})
}

func (h *handlers) dismissSummary(c *gin.Context) {
	h.eng.DismissSummary()
	c.Status(http.StatusNoContent)
}
