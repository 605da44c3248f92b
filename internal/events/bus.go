// Package events desacopla as mutações primárias da trilha de auditoria.
// Um serviço publica o evento de domínio e retorna; o assinante que
// persiste a atividade falha de forma independente.
package events

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/internal/domain"
)

// DomainEvent descreve uma mutação já efetivada sobre um registro.
type DomainEvent struct {
	Type        domain.ActivityType
	ActorID     *string
	Description string
	EntityID    string
	EntityType  domain.EntityType
}

type Publisher interface {
	Publish(event DomainEvent)
}

type Subscriber interface {
	Handle(event DomainEvent)
}

type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(subscriber Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, subscriber)
}

// Publish entrega o evento de forma síncrona a todos os assinantes.
// Um panic em um assinante não derruba a operação que publicou.
func (b *Bus) Publish(event DomainEvent) {
	b.mu.RLock()
	subscribers := make([]Subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.RUnlock()

	for _, subscriber := range subscribers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithFields(logrus.Fields{
						"event_type": event.Type,
						"entity_id":  event.EntityID,
						"panic":      r,
					}).Error("Panic em assinante de evento de domínio")
				}
			}()
			subscriber.Handle(event)
		}()
	}
}
