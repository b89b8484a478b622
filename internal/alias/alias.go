// Package alias maps colloquial and learned shop vocabulary to the
// canonical terms the rest of the system understands.
package alias

import (
	"strings"

	"go.uber.org/zap"
)

// Store is the persistence boundary for learned aliases. Keys are stored
// case-insensitively and are expected to survive process restarts.
type Store interface {
	GetAlias(key string) (string, bool, error)
	SetAlias(key, value string) error
}

// Resolver resolves a token through three layers in order: the built-in
// canonical map, the learned map, then the legacy fallback map. A token
// no layer knows resolves to itself.
type Resolver struct {
	store   Store
	learned map[string]string // in-memory overlay, survives store write failures
	log     *zap.Logger
}

// builtins is the static canonical vocabulary shipped with the app.
var builtins = map[string]string{
	"doodh":   "milk",
	"dudh":    "milk",
	"chai":    "tea",
	"chaya":   "tea",
	"cheeni":  "sugar",
	"shakkar": "sugar",
	"atta":    "flour",
	"maida":   "flour",
	"namak":   "salt",
	"tel":     "oil",
	"chawal":  "rice",
	"daal":    "lentils",
	"dal":     "lentils",
	"sabun":   "soap",
	"anda":    "egg",
	"ande":    "egg",
	"pyaz":    "onion",
	"aloo":    "potato",
	"tamatar": "tomato",
	"biskut":  "biscuit",
	"pani":    "water",
	"ghee":    "ghee",
	"masala":  "spices",
	"mirchi":  "chilli",
	"haldi":   "turmeric",
}

// legacy is the older fallback map kept for compatibility with vocabulary
// learned by earlier releases.
var legacy = map[string]string{
	"maal":    "stock",
	"saman":   "stock",
	"paisa":   "cash",
	"paise":   "cash",
	"udhaar":  "credit",
	"udhar":   "credit",
	"grahak":  "customer",
	"dukaan":  "shop",
	"hisaab":  "report",
	"kharcha": "expense",
	"bikri":   "sales",
}

// NewResolver creates a Resolver backed by the given store. A nil store
// disables the learned layer; a nil logger disables diagnostics.
func NewResolver(store Store, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		store:   store,
		learned: make(map[string]string),
		log:     log,
	}
}

// Resolve maps a token to its canonical term. Resolution is idempotent:
// a term that is already canonical comes back unchanged. Store read
// failures degrade to treating the token as canonical.
func (r *Resolver) Resolve(token string) string {
	key := strings.ToLower(strings.TrimSpace(token))
	if key == "" {
		return token
	}
	if v, ok := builtins[key]; ok {
		return v
	}
	if v, ok := r.learned[key]; ok {
		return v
	}
	if r.store != nil {
		v, ok, err := r.store.GetAlias(key)
		if err != nil {
			r.log.Debug("alias store read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return v
		}
	}
	if v, ok := legacy[key]; ok {
		return v
	}
	return key
}

// Learn records alias -> target. Last writer wins. The write is
// fire-and-forget: a failed persist keeps the in-memory mapping for this
// session and is only logged, never returned to the caller.
func (r *Resolver) Learn(alias, target string) {
	key := strings.ToLower(strings.TrimSpace(alias))
	val := strings.ToLower(strings.TrimSpace(target))
	if key == "" || val == "" {
		return
	}
	r.learned[key] = val
	if r.store == nil {
		return
	}
	if err := r.store.SetAlias(key, val); err != nil {
		r.log.Warn("alias persist failed, mapping will be forgotten after restart",
			zap.String("alias", key), zap.Error(err))
	}
}
