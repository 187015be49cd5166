package server

import (
	"encoding/json"
	"sync"

	"github.com/Earthondev/guessing-game-earth-sub000/internal/game"
)

// leaderboardChannel is the broker key for the live score feed.
const leaderboardChannel = "leaderboard"

// GameEvent is the payload published to session subscribers.
type GameEvent struct {
	Type          string `json:"type"`
	QuestionIndex int    `json:"questionIndex"`
	Answer        string `json:"answer,omitempty"`
	ScoreDelta    int    `json:"scoreDelta,omitempty"`
	TotalScore    int    `json:"totalScore"`
}

func eventPayload(ev game.Event) GameEvent {
	return GameEvent{
		Type:          string(ev.Type),
		QuestionIndex: ev.QuestionIndex,
		Answer:        ev.Answer,
		ScoreDelta:    ev.ScoreDelta,
		TotalScore:    ev.TotalScore,
	}
}

// Broker is an in-process pub/sub for game and leaderboard events, keyed
// by channel (session token or leaderboardChannel).
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for key.
func (b *Broker) Subscribe(key string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[key] == nil {
		b.subs[key] = make(map[chan []byte]struct{})
	}
	b.subs[key][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the key's subscribers.
func (b *Broker) Unsubscribe(key string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[key], ch)
	if len(b.subs[key]) == 0 {
		delete(b.subs, key)
	}
	b.mu.Unlock()
}

func (b *Broker) hasSubscribers(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[key]) > 0
}

// Publish sends an event to all subscribers of key.
func (b *Broker) Publish(key string, event any) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[key] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
