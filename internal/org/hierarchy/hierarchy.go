// Package hierarchy resolves the manager/subordinate organization tree.
// All functions are pure: they take the full user list as an argument and
// hold no state, so they are safe to call from concurrent requests.
package hierarchy

import (
	"anchor_crm_backend/internal/org/domain"

	"github.com/google/uuid"
)

// SubordinatesOf returns the transitive closure of users whose managerId
// chain reaches userID, excluding userID itself. Breadth-first expansion
// with a visited set: a malformed cyclic graph stops expanding instead of
// looping forever.
func SubordinatesOf(userID uuid.UUID, allUsers []domain.User) map[uuid.UUID]struct{} {
	reports := make(map[uuid.UUID][]uuid.UUID, len(allUsers))
	for _, u := range allUsers {
		if u.ManagerID != nil {
			reports[*u.ManagerID] = append(reports[*u.ManagerID], u.ID)
		}
	}

	result := make(map[uuid.UUID]struct{})
	visited := map[uuid.UUID]struct{}{userID: {}}
	queue := append([]uuid.UUID(nil), reports[userID]...)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}
		result[current] = struct{}{}
		queue = append(queue, reports[current]...)
	}

	return result
}

// CyclicUsers returns the ids of users whose managerId chain never reaches
// a root (nil manager), i.e. users caught in a manager cycle. An empty
// result means the hierarchy is a well-formed forest.
func CyclicUsers(allUsers []domain.User) []uuid.UUID {
	managers := make(map[uuid.UUID]*uuid.UUID, len(allUsers))
	for _, u := range allUsers {
		managers[u.ID] = u.ManagerID
	}

	var cyclic []uuid.UUID
	for _, u := range allUsers {
		seen := map[uuid.UUID]struct{}{}
		current := u.ID
		for {
			if _, dup := seen[current]; dup {
				cyclic = append(cyclic, u.ID)
				break
			}
			seen[current] = struct{}{}

			next, ok := managers[current]
			if !ok || next == nil {
				break
			}
			current = *next
		}
	}

	return cyclic
}
