// Command seed loads a YAML fixture file into the database. Intended for
// development and demo environments; it skips users that already exist so
// reruns are safe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"anchor_crm_backend/internal/auth/password"
	leaddomain "anchor_crm_backend/internal/leads/domain"
	leadsrepo "anchor_crm_backend/internal/leads/repository"
	orgdomain "anchor_crm_backend/internal/org/domain"
	orgrepo "anchor_crm_backend/internal/org/repository"
	"anchor_crm_backend/platform/config"
	"anchor_crm_backend/platform/db"
	"anchor_crm_backend/platform/logger"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type fixture struct {
	Users []fixtureUser `yaml:"users"`
	Leads []fixtureLead `yaml:"leads"`
}

type fixtureUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Role     string `yaml:"role"`
	Manager  string `yaml:"manager"` // manager's email, resolved in a second pass
	Region   string `yaml:"region"`
	Password string `yaml:"password"`
}

type fixtureLead struct {
	Name       string  `yaml:"name"`
	Kind       string  `yaml:"kind"`
	Status     string  `yaml:"status"`
	AssignedTo string  `yaml:"assignedTo"` // assignee's email
	CreatedBy  string  `yaml:"createdBy"`  // creator's email
	Anchor     string  `yaml:"anchor"`     // anchor lead's name, for dealer/vendor spokes
	DealValue  float64 `yaml:"dealValue"`
	Product    string  `yaml:"product"`
	Phone      string  `yaml:"phone"`
}

func main() {
	file := flag.String("file", "seed/fixtures.yaml", "path to the YAML fixture file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("failed to load config: %v", err)
	}

	log := logger.New(cfg.Env)
	ctx := context.Background()

	raw, err := os.ReadFile(*file)
	if err != nil {
		fail("failed to read fixture file: %v", err)
	}

	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		fail("failed to parse fixture file: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		fail("failed to connect to database: %v", err)
	}
	defer pool.Close()

	users := orgrepo.New(pool)
	leads := leadsrepo.New(pool)

	existing, err := users.ListUsers(ctx)
	if err != nil {
		fail("failed to list users: %v", err)
	}
	userByEmail := make(map[string]orgdomain.User, len(existing))
	for _, u := range existing {
		userByEmail[strings.ToLower(u.Email)] = u
	}

	// First pass: create users without manager links.
	for _, fu := range fx.Users {
		key := strings.ToLower(fu.Email)
		if _, ok := userByEmail[key]; ok {
			log.Info("user exists, skipping", "email", fu.Email)
			continue
		}

		role := orgdomain.Role(fu.Role)
		if !orgdomain.IsKnownRole(role) {
			fail("unknown role %q for user %s", fu.Role, fu.Email)
		}

		hash, err := password.Hash(fu.Password)
		if err != nil {
			fail("failed to hash password for %s: %v", fu.Email, err)
		}

		created, err := users.Create(ctx, orgrepo.CreateUserParams{
			Name:         fu.Name,
			Email:        fu.Email,
			Phone:        fu.Phone,
			Role:         role,
			Region:       fu.Region,
			PasswordHash: hash,
		})
		if err != nil {
			fail("failed to create user %s: %v", fu.Email, err)
		}
		userByEmail[key] = created
		log.Info("user created", "email", created.Email, "role", created.Role)
	}

	// Second pass: wire manager chains now that every user has an id.
	for _, fu := range fx.Users {
		if fu.Manager == "" {
			continue
		}
		user, ok := userByEmail[strings.ToLower(fu.Email)]
		if !ok {
			continue
		}
		manager, ok := userByEmail[strings.ToLower(fu.Manager)]
		if !ok {
			fail("manager %q for user %s not found in fixture or database", fu.Manager, fu.Email)
		}
		if user.ManagerID != nil && *user.ManagerID == manager.ID {
			continue
		}

		managerID := manager.ID
		if _, err := users.Update(ctx, user.ID, orgrepo.UpdateUserParams{
			ManagerID:    &managerID,
			ManagerIDSet: true,
		}); err != nil {
			fail("failed to set manager for %s: %v", fu.Email, err)
		}
		log.Info("manager linked", "user", fu.Email, "manager", fu.Manager)
	}

	existingLeads, err := leads.ListLeads(ctx)
	if err != nil {
		fail("failed to list leads: %v", err)
	}
	leadByName := make(map[string]uuid.UUID, len(existingLeads))
	for _, l := range existingLeads {
		leadByName[strings.ToLower(l.Name)] = l.ID
	}

	for _, fl := range fx.Leads {
		if _, ok := leadByName[strings.ToLower(fl.Name)]; ok {
			log.Info("lead exists, skipping", "name", fl.Name)
			continue
		}

		kind := leaddomain.Kind(fl.Kind)
		if !leaddomain.IsKnownKind(kind) {
			fail("unknown kind %q for lead %s", fl.Kind, fl.Name)
		}
		status := leaddomain.Status(fl.Status)
		if !leaddomain.IsKnownStatus(kind, status) {
			fail("unknown status %q for %s lead %s", fl.Status, fl.Kind, fl.Name)
		}

		params := leadsrepo.CreateLeadParams{
			Name:      fl.Name,
			Kind:      kind,
			Status:    status,
			DealValue: fl.DealValue,
			Product:   fl.Product,
			Phone:     fl.Phone,
		}

		if fl.AssignedTo != "" {
			assignee, ok := userByEmail[strings.ToLower(fl.AssignedTo)]
			if !ok {
				fail("assignee %q for lead %s not found", fl.AssignedTo, fl.Name)
			}
			id := assignee.ID
			params.AssignedTo = &id
		}
		if (params.AssignedTo == nil) != (status == leaddomain.StatusUnassigned) {
			fail("lead %s: assignment and status %q are inconsistent", fl.Name, fl.Status)
		}
		if fl.CreatedBy != "" {
			creator, ok := userByEmail[strings.ToLower(fl.CreatedBy)]
			if !ok {
				fail("creator %q for lead %s not found", fl.CreatedBy, fl.Name)
			}
			id := creator.ID
			params.CreatedBy = &id
		}
		if fl.Anchor != "" {
			if !kind.IsSpoke() {
				fail("lead %s: anchor reference is only valid for dealer/vendor leads", fl.Name)
			}
			anchorID, ok := leadByName[strings.ToLower(fl.Anchor)]
			if !ok {
				fail("anchor %q for lead %s not found; list anchors before their spokes", fl.Anchor, fl.Name)
			}
			id := anchorID
			params.AnchorID = &id
		}

		created, err := leads.Create(ctx, params)
		if err != nil {
			fail("failed to create lead %s: %v", fl.Name, err)
		}
		leadByName[strings.ToLower(created.Name)] = created.ID
		log.Info("lead created", "name", created.Name, "kind", created.Kind, "status", created.Status)
	}

	log.Info("seed complete", "users", len(fx.Users), "leads", len(fx.Leads))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "seed: "+format+"\n", args...)
	os.Exit(1)
}
