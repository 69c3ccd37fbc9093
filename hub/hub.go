package hub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/satriajati/dinepos/models"
)

// Event types pushed to station displays.
const (
	EventTableCreate  = "table_create"
	EventTableUpdate  = "table_update"
	EventTableDelete  = "table_delete"
	EventOrderCreate  = "order_create"
	EventTicketCreate = "ticket_create"
	EventTicketUpdate = "ticket_update"
	EventPayment      = "payment_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// displayHub holds every connected display client (kitchen, bar, floor).
type displayHub struct {
	clients map[*websocket.Conn]string // conn -> station
	mutex   sync.Mutex
}

var hub = displayHub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a display connection for a station.
func RegisterClient(conn *websocket.Conn, station string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = station
}

// UnregisterClient drops and closes a display connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastTableUpdate pushes a table state change to every display.
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

// BroadcastTableCreate announces a new table.
func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, Data: table})
}

// BroadcastTableDelete announces a removed table.
func BroadcastTableDelete(tableID uint) {
	broadcast(Message{Event: EventTableDelete, Data: map[string]interface{}{"table_id": tableID}})
}

// BroadcastOrderCreate announces a newly submitted order.
func BroadcastOrderCreate(order models.Order) {
	broadcast(Message{Event: EventOrderCreate, Data: order})
}

// BroadcastTicketUpdate pushes a ticket lifecycle change to the displays.
func BroadcastTicketUpdate(ticket models.StationTicket) {
	broadcast(Message{Event: EventTicketUpdate, Data: ticket})
}

// BroadcastTicketCreate announces a freshly routed ticket.
func BroadcastTicketCreate(ticket models.StationTicket) {
	broadcast(Message{Event: EventTicketCreate, Data: ticket})
}

// BroadcastPayment announces a settled or refunded order.
func BroadcastPayment(data interface{}) {
	broadcast(Message{Event: EventPayment, Data: data})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("hub: error marshaling message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("hub: error sending message: %v", err)
		}
	}
}
