// Package catalog reads the member reference data the ingestion job writes
// alongside the vector indexes.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/hansardlab/policyrag/internal/domain/catalog"
	"github.com/hansardlab/policyrag/internal/domain/scope"
)

// store is the consumer interface for catalog reads.
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo implements usecase/catalog.Repository.
type Repo struct {
	store     store
	keyPrefix string
	logger    *zap.Logger
}

// New creates a catalog repository.
func New(s store, keyPrefix string, logger *zap.Logger) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, logger: logger}
}

// membersKey is the hash holding one session's member listing. Fields are
// member names; values are JSON Member records.
func (r *Repo) membersKey(session string) string {
	return fmt.Sprintf("%scatalog:members:%s", r.keyPrefix, session)
}

// Members returns the member listing for a session, sorted by name. The
// scope.AllSessions sentinel unions every known session, deduplicating by
// member name (later sessions win).
func (r *Repo) Members(ctx context.Context, session string) ([]catalog.Member, error) {
	if session != scope.AllSessions {
		m, err := r.store.HGetAll(ctx, r.membersKey(session))
		if err != nil {
			return nil, fmt.Errorf("hgetall catalog %s: %w", session, err)
		}
		return r.decodeMembers(m), nil
	}

	keys := make([]string, 0, len(scope.Sessions))
	for _, s := range scope.Sessions {
		keys = append(keys, r.membersKey(s))
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall catalog all sessions: %w", err)
	}

	merged := make(map[string]string)
	for _, h := range hashes {
		for name, raw := range h {
			merged[name] = raw
		}
	}

	return r.decodeMembers(merged), nil
}

// decodeMembers parses the JSON member records, skipping unparseable entries
// rather than failing the whole listing.
func (r *Repo) decodeMembers(fields map[string]string) []catalog.Member {
	members := make([]catalog.Member, 0, len(fields))

	for name, raw := range fields {
		var m catalog.Member
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			r.logger.Warn("Skipping malformed catalog entry",
				zap.String("member", name), zap.Error(err))
			continue
		}
		if m.Name == "" {
			m.Name = name
		}
		members = append(members, m)
	}

	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members
}
