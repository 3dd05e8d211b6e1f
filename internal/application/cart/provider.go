package cart

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
	"github.com/jhoicas/rocketshoes-cart/internal/domain"
	"github.com/jhoicas/rocketshoes-cart/pkg/logger"
)

// DefaultNamespace prefijo de las claves de carrito en el almacenamiento.
const DefaultNamespace = "@RocketShoes"

// CartKey clave persistente del carrito de una sesión: <namespace>:<sessionID>:cart.
func CartKey(namespace, sessionID string) string {
	return fmt.Sprintf("%s:%s:cart", namespace, sessionID)
}

// ProviderConfig dependencias compartidas por todas las sesiones.
type ProviderConfig struct {
	Namespace  string
	Catalog    ports.CatalogService
	Store      ports.KeyValueStore
	Translator ports.Translator
	Logger     *logger.Logger
	InboxSize  int
	// Sinks destinos extra por sesión (log, NATS). Puede ser nil.
	Sinks func(sessionID string) []ports.Notifier
	Now   func() time.Time
}

// Session carrito de una sesión y su bandeja de notificaciones.
type Session struct {
	ID    string
	Cart  *Manager
	Inbox *Inbox

	lastSeen atomic.Int64 // unix nanos del último acceso
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen último acceso a la sesión vía Provider.Session.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Provider punto de acceso compartido: todas las vistas de una sesión obtienen el
// mismo Manager.
type Provider struct {
	cfg ProviderConfig

	mu       sync.RWMutex
	sessions map[string]*Session
	opening  singleflight.Group
}

// NewProvider construye el Provider.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.Catalog == nil || cfg.Store == nil {
		return nil, fmt.Errorf("provider de carritos: %w", domain.ErrInvalidInput)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Provider{cfg: cfg, sessions: make(map[string]*Session)}, nil
}

// Session devuelve la sesión, hidratándola desde el almacenamiento en el primer acceso.
// Accesos concurrentes a una sesión nueva hidratan una sola vez. Si la lectura del
// almacenamiento falla la sesión no queda en memoria y el siguiente acceso reintenta.
func (p *Provider) Session(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sesión vacía: %w", domain.ErrInvalidInput)
	}
	if s, ok := p.lookup(sessionID); ok {
		s.touch(p.cfg.Now())
		return s, nil
	}
	// La hidratación es compartida: no depende de la cancelación del primer caller.
	openCtx := context.WithoutCancel(ctx)
	v, err, _ := p.opening.Do(sessionID, func() (interface{}, error) {
		if s, ok := p.lookup(sessionID); ok {
			return s, nil
		}
		s, err := p.open(openCtx, sessionID)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.sessions[sessionID] = s
		p.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	s := v.(*Session)
	s.touch(p.cfg.Now())
	return s, nil
}

// Evict saca de memoria las sesiones sin acceso desde hace más de idle y devuelve
// cuántas salieron. Una sesión con una escritura en curso se conserva hasta el
// siguiente barrido. El carrito persistido no se toca.
func (p *Provider) Evict(idle time.Duration) int {
	cutoff := p.cfg.Now().Add(-idle)

	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for id, s := range p.sessions {
		if s.LastSeen().After(cutoff) {
			continue
		}
		if !s.Cart.writer.TryAcquire(1) {
			continue
		}
		delete(p.sessions, id)
		s.Cart.writer.Release(1)
		n++
	}
	return n
}

// RunEvictor barre sesiones inactivas cada every hasta que ctx se cancele.
func (p *Provider) RunEvictor(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := p.Evict(idle); n > 0 {
				p.cfg.Logger.Debug().Int("evicted", n).Int("resident", p.Len()).Msg("sesiones inactivas liberadas")
			}
		}
	}
}

// Close libera la sesión de memoria. El carrito persistido se conserva.
func (p *Provider) Close(sessionID string) {
	p.mu.Lock()
	delete(p.sessions, sessionID)
	p.mu.Unlock()
}

// Len sesiones en memoria.
func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}

func (p *Provider) lookup(sessionID string) (*Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sessions[sessionID]
	return s, ok
}

func (p *Provider) open(ctx context.Context, sessionID string) (*Session, error) {
	inbox := NewInbox(p.cfg.InboxSize)
	sinks := Fanout{inbox}
	if p.cfg.Sinks != nil {
		sinks = append(sinks, p.cfg.Sinks(sessionID)...)
	}
	m, err := NewManager(ctx, Options{
		Key:        CartKey(p.cfg.Namespace, sessionID),
		Catalog:    p.cfg.Catalog,
		Store:      p.cfg.Store,
		Notifier:   sinks,
		Translator: p.cfg.Translator,
		Logger:     p.cfg.Logger.Named("cart"),
		Now:        p.cfg.Now,
	})
	if err != nil {
		return nil, err
	}
	return &Session{ID: sessionID, Cart: m, Inbox: inbox}, nil
}
