package discord

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Collector hands component and modal interactions to the invocation waiting for their custom id.
type Collector struct {
	mu      sync.Mutex
	waiters map[string]chan *discordgo.Interaction
}

// NewCollector creates an empty [Collector].
func NewCollector() *Collector {
	return &Collector{waiters: make(map[string]chan *discordgo.Interaction)}
}

// Register starts waiting for id. The returned func stops waiting and must be called.
//
// Registering an id twice replaces the earlier waiter.
func (c *Collector) Register(id string) (<-chan *discordgo.Interaction, func()) {
	ch := make(chan *discordgo.Interaction, 1)

	c.mu.Lock()
	c.waiters[id] = ch
	c.mu.Unlock()

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.waiters[id] == ch {
			delete(c.waiters, id)
		}
	}
}

// Deliver passes i to its waiter. It reports false when nobody is waiting or the waiter
// already holds an undelivered interaction.
func (c *Collector) Deliver(i *discordgo.Interaction) bool {
	id := CustomID(i)
	if id == "" {
		return false
	}

	c.mu.Lock()
	ch, ok := c.waiters[id]
	c.mu.Unlock()
	if !ok {
		return false
	}

	select {
	case ch <- i:
		return true
	default:
		return false
	}
}

// Pending returns the number of registered ids.
func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// CustomID returns the custom id of a component or modal interaction.
func CustomID(i *discordgo.Interaction) string {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return i.ModalSubmitData().CustomID
	default:
		return ""
	}
}

// UserID returns the id of the user behind i, in guilds and in direct messages.
func UserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
