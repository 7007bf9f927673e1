package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"almoxarifado-backend/internal/auth"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Evento de mudança empurrado aos clientes inscritos. Sem deduplicação nem
// garantia de ordem: quem assina refaz a leitura ao receber o aviso.
type ChangeEvent struct {
	Type  string `json:"type"` // sempre "change"
	Table string `json:"table"`
	Event string `json:"event"` // INSERT | UPDATE | DELETE
}

type subscribeMessage struct {
	Subscribe []string `json:"subscribe"`
}

// wsConn é o recorte da conexão usado pelo hub.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Client struct {
	conn      wsConn
	Matricula string

	mu      sync.Mutex
	tabelas map[string]bool // vazio = todas
}

func (c *Client) setTabelas(nomes []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tabelas = make(map[string]bool, len(nomes))
	for _, n := range nomes {
		c.tabelas[n] = true
	}
}

func (c *Client) quer(tabela string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tabelas) == 0 || c.tabelas[tabela]
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan ChangeEvent
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan ChangeEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

var H = NewHub()

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Cliente realtime conectado: %s", client.Matricula)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.conn.Close()
			}
			h.mu.Unlock()
			log.Printf("Cliente realtime desconectado: %s", client.Matricula)

		case ev := <-h.broadcast:
			msg, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Erro serializando evento realtime: %v", err)
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if !client.quer(ev.Table) {
					continue
				}
				if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Printf("Erro de escrita no websocket: %v", err)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Notify enfileira a notificação de mudança de uma tabela. Nunca bloqueia o
// handler que gravou: com o hub parado ou o buffer cheio o evento é
// descartado (o cliente recupera na próxima leitura completa).
func (h *Hub) Notify(table, event string) {
	select {
	case h.broadcast <- ChangeEvent{Type: "change", Table: table, Event: event}:
	default:
	}
}

func Notify(table, event string) {
	H.Notify(table, event)
}

// UpgradeMiddleware barra requisições que não são upgrade de websocket.
func UpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeWSHandler: GET /api/ws?token=... O cliente envia
// {"subscribe": ["itens", "solicitacoes", ...]} para filtrar tabelas;
// sem mensagem de inscrição, recebe tudo.
func ServeWSHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		matricula, _ := conn.Locals(auth.CtxMatriculaKey).(string)

		client := &Client{
			conn:      conn,
			Matricula: matricula,
			tabelas:   make(map[string]bool),
		}

		H.register <- client
		defer func() {
			H.unregister <- client
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var sub subscribeMessage
			if err := json.Unmarshal(raw, &sub); err != nil || sub.Subscribe == nil {
				continue
			}
			client.setTabelas(sub.Subscribe)
		}
	})
}
