package service

import (
	"context"
	"strings"
	"sync"

	"github.com/workhive/workhive-server/internal/domain"

	"github.com/google/uuid"
)

// skillResolver fronts the catalog with a case-insensitive name cache so one
// ingestion run hits the database at most once per distinct name, no matter
// how many sections mention the same skill.
type skillResolver struct {
	skillRepo domain.SkillRepository

	mu    sync.Mutex
	cache map[string]uuid.UUID
}

func NewSkillResolver(skillRepo domain.SkillRepository) domain.SkillResolver {
	return &skillResolver{
		skillRepo: skillRepo,
		cache:     make(map[string]uuid.UUID),
	}
}

func (r *skillResolver) Resolve(ctx context.Context, name string, category *string) (uuid.UUID, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	r.mu.Lock()
	if id, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return id, nil
	}
	r.mu.Unlock()

	skill, err := r.skillRepo.GetOrCreate(ctx, strings.TrimSpace(name), category)
	if err != nil {
		return uuid.Nil, err
	}

	r.mu.Lock()
	r.cache[key] = skill.ID
	r.mu.Unlock()

	return skill.ID, nil
}
