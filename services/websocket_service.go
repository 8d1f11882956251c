package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"jotfox-notes/jotfox/drag"
	"jotfox-notes/jotfox/gateway"
	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

// Context key the session token middleware stores the raw token under.
const SessionTokenKey = "sessionToken"

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "jotfox",
		Subsystem: "ui",
		Name:      "sessions_active",
		Help:      "Connected UI bridge sessions.",
	})
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jotfox",
		Subsystem: "ui",
		Name:      "actions_total",
		Help:      "Client actions handled by the UI bridge.",
	}, []string{"action"})
)

// GatewayFactory builds the gateway a session uses from its token.
type GatewayFactory func(token string) store.Gateway

// ClientGatewayFactory talks to the JotFox API at apiURL with a session
// scoped token.
func ClientGatewayFactory(apiURL string) GatewayFactory {
	return func(tok string) store.Gateway {
		app := gateway.NewAppContext(gateway.NewMemoryTokenStore(tok))
		if err := app.Init(); err != nil {
			log.Warn().Err(err).Msg("failed to load session token")
		}
		return gateway.NewClient(apiURL, app)
	}
}

type WebSocketServiceInterface interface {
	HandleConnection(c *gin.Context)
	ClientCount() int
	Stop()
}

// Client is one connected browser tab. It owns a note store and a drag
// engine for as long as the connection lives.
type Client struct {
	ID     string
	Hub    *WebSocketService
	Conn   *websocket.Conn
	Send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	store  *store.NoteStore
	engine *drag.Engine
}

// WebSocketService bridges UI events onto per-session note stores.
type WebSocketService struct {
	clients      map[string]*Client
	clientsMutex sync.RWMutex

	upgrader   websocket.Upgrader
	newGateway GatewayFactory
	dragOpts   []drag.Option
}

func NewWebSocketService(newGateway GatewayFactory, dragOpts ...drag.Option) *WebSocketService {
	return &WebSocketService{
		clients: make(map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		newGateway: newGateway,
		dragOpts:   dragOpts,
	}
}

// HandleConnection upgrades the request and starts a session for it. The
// token must already be in the gin context under SessionTokenKey.
func (ws *WebSocketService) HandleConnection(c *gin.Context) {
	tok := c.GetString(SessionTokenKey)
	if tok == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := ws.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(fmt.Errorf("%w: %v", ErrWebSocketConnection, err)).Msg("upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	noteStore := store.New(ws.newGateway(tok))
	client := &Client{
		ID:     uuid.New().String(),
		Hub:    ws,
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
		ctx:    ctx,
		cancel: cancel,
		store:  noteStore,
		engine: drag.NewEngine(noteStore, ws.dragOpts...),
	}
	ws.register(client)

	go client.writePump()
	go client.readPump()
}

func (ws *WebSocketService) register(client *Client) {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()
	ws.clients[client.ID] = client
	activeSessions.Inc()
	log.Info().Str("client_id", client.ID).Msg("ui session opened")
}

func (ws *WebSocketService) unregister(client *Client) {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()
	if _, ok := ws.clients[client.ID]; ok {
		delete(ws.clients, client.ID)
		activeSessions.Dec()
		log.Info().Str("client_id", client.ID).Msg("ui session closed")
	}
}

func (ws *WebSocketService) ClientCount() int {
	ws.clientsMutex.RLock()
	defer ws.clientsMutex.RUnlock()
	return len(ws.clients)
}

// Stop closes every session. Requests still in flight finish but their
// responses are dropped.
func (ws *WebSocketService) Stop() {
	ws.clientsMutex.RLock()
	clients := make([]*Client, 0, len(ws.clients))
	for _, client := range ws.clients {
		clients = append(clients, client)
	}
	ws.clientsMutex.RUnlock()

	for _, client := range clients {
		client.close()
	}
}

func (c *Client) close() {
	c.cancel()
	c.Conn.Close()
	c.Hub.unregister(c)
}

func (c *Client) readPump() {
	defer c.close()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.ID).Msg("websocket read failed")
			}
			return
		}
		c.processMessage(message)
	}
}

// writePump is the only writer on the connection. Send is never closed;
// the pump stops when the session context is cancelled.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("client_id", c.ID).Msg("websocket write failed")
				c.cancel()
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}
		}
	}
}

func (c *Client) send(msg *models.StandardMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("event", msg.Event).Msg("failed to encode message")
		return
	}
	select {
	case c.Send <- data:
	case <-c.ctx.Done():
	}
}

func (c *Client) reply(msg models.ClientMessage, msgType models.WebSocketMessageType, payload interface{}) {
	c.send(models.NewStandardMessage(msgType, msg.Action, payload).InReplyTo(msg.ID))
}

// ErrorPayload is what an error message carries.
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (c *Client) replyError(msg models.ClientMessage, err error) {
	c.reply(msg, models.ErrorMessage, ErrorPayload{Kind: errorKind(err), Message: err.Error()})
}

var errUnknownAction = errors.New("unknown action")

type badPayloadError struct {
	err error
}

func (e badPayloadError) Error() string { return "bad payload: " + e.err.Error() }
func (e badPayloadError) Unwrap() error { return e.err }

func errorKind(err error) string {
	var payloadErr badPayloadError
	switch {
	case errors.As(err, &payloadErr), errors.Is(err, errUnknownAction):
		return "bad_request"
	case errors.Is(err, store.ErrValidation):
		return "validation"
	case errors.Is(err, store.ErrIndexOutOfRange):
		return "index_out_of_range"
	case errors.Is(err, drag.ErrAlreadyDragging), errors.Is(err, drag.ErrNotDragging), errors.Is(err, drag.ErrNotActiveItem):
		return "drag_state"
	}
	if kind, ok := gateway.KindOf(err); ok {
		return kind.String()
	}
	return "internal"
}

func decode[T any](msg models.ClientMessage) (T, error) {
	var payload T
	if len(msg.Payload) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, badPayloadError{err}
	}
	return payload, nil
}

// remote answers pending right away and runs op in the background. The
// result is dropped if the session is gone by the time it arrives.
func (c *Client) remote(msg models.ClientMessage, op func(ctx context.Context) (store.Snapshot, error)) {
	c.reply(msg, models.PendingMessage, nil)
	go func() {
		snapshot, err := op(c.ctx)
		if c.ctx.Err() != nil {
			log.Debug().Str("client_id", c.ID).Str("action", msg.Action).Msg("session closed, dropping response")
			return
		}
		if err != nil {
			c.replyError(msg, err)
			return
		}
		c.reply(msg, models.SnapshotMessage, snapshot)
	}()
}

// DragReply reports the drag engine's state after a drag action.
type DragReply struct {
	State   string        `json:"state"`
	Index   int           `json:"index"`
	Swapped bool          `json:"swapped"`
	Notes   []models.Note `json:"notes,omitempty"`
}

func (c *Client) processMessage(data []byte) {
	var msg models.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Warn().Err(err).Str("client_id", c.ID).Msg("unparseable client message")
		c.replyError(msg, badPayloadError{err})
		return
	}
	actionsTotal.WithLabelValues(msg.Action).Inc()

	if err := c.dispatch(msg); err != nil {
		c.replyError(msg, err)
	}
}

func (c *Client) dispatch(msg models.ClientMessage) error {
	switch msg.Action {
	case "load":
		c.remote(msg, c.store.Load)

	case "create_note":
		draft, err := decode[models.NoteDraft](msg)
		if err != nil {
			return err
		}
		c.remote(msg, func(ctx context.Context) (store.Snapshot, error) {
			return c.store.CreateNote(ctx, draft)
		})

	case "update_note":
		payload, err := decode[models.UpdateNotePayload](msg)
		if err != nil {
			return err
		}
		c.remote(msg, func(ctx context.Context) (store.Snapshot, error) {
			snapshot, _, err := c.store.UpdateNote(ctx, payload.NoteID, payload.Draft)
			return snapshot, err
		})

	case "delete_note":
		payload, err := decode[models.NoteIDPayload](msg)
		if err != nil {
			return err
		}
		c.remote(msg, func(ctx context.Context) (store.Snapshot, error) {
			return c.store.DeleteNote(ctx, payload.NoteID)
		})

	case "save_categories":
		payload, err := decode[models.UpdateCategoriesRequest](msg)
		if err != nil {
			return err
		}
		c.remote(msg, func(ctx context.Context) (store.Snapshot, error) {
			return c.store.SaveCategoryRegistry(ctx, payload.Categories)
		})

	case "persist_order":
		c.remote(msg, c.store.PersistOrder)

	case "reorder":
		payload, err := decode[models.ReorderPayload](msg)
		if err != nil {
			return err
		}
		snapshot, err := c.store.Reorder(payload.From, payload.To)
		if err != nil {
			return err
		}
		c.reply(msg, models.SnapshotMessage, snapshot)

	case "discard_order":
		c.reply(msg, models.SnapshotMessage, c.store.DiscardReorder())

	case "search":
		payload, err := decode[models.SearchPayload](msg)
		if err != nil {
			return err
		}
		notes := slices.Collect(c.store.Filter(payload.Term))
		c.reply(msg, models.ResultsMessage, notes)

	case "layout":
		payload, err := decode[models.LayoutPayload](msg)
		if err != nil {
			return err
		}
		c.engine.ResetPositions(payload.Positions)

	case "drag_start":
		payload, err := decode[models.DragPayload](msg)
		if err != nil {
			return err
		}
		if err := c.engine.DragStart(payload.Index); err != nil {
			return err
		}
		c.reply(msg, models.DragMessage, DragReply{State: drag.Dragging.String(), Index: payload.Index})

	case "drag_move":
		payload, err := decode[models.DragPayload](msg)
		if err != nil {
			return err
		}
		result, err := c.engine.DragMove(payload.Index, payload.Delta)
		if err != nil {
			return err
		}
		reply := DragReply{State: drag.Dragging.String(), Index: result.To, Swapped: result.Swapped}
		if result.Swapped {
			reply.Notes = result.Snapshot.Notes
		}
		c.reply(msg, models.DragMessage, reply)

	case "drag_end":
		final, err := c.engine.DragEnd()
		if err != nil {
			return err
		}
		c.reply(msg, models.DragMessage, DragReply{State: drag.Idle.String(), Index: final})

	case "drag_cancel":
		c.engine.Cancel()
		c.reply(msg, models.DragMessage, DragReply{State: drag.Idle.String(), Index: -1})

	case "ping":

	default:
		return fmt.Errorf("%w: %q", errUnknownAction, msg.Action)
	}
	return nil
}

var WebSocketServiceInstance WebSocketServiceInterface
