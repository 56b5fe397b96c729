package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/repositories/memory"
	"github.com/yigit/hostelhub/internal/app/services"
)

func TestSeedingIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	admins := services.NewAdminService(repos, zerolog.Nop())
	account := AdminAccount{Username: "admin", Email: "admin@example.com", Password: "admin123"}

	for i, wantCreated := range []bool{true, false} {
		created, err := EnsureDefaultAdmin(ctx, repos, admins, account, zerolog.Nop())
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if created != wantCreated {
			t.Errorf("run %d: created = %v, want %v", i, created, wantCreated)
		}
	}

	first, err := CreateSampleRooms(ctx, repos, zerolog.Nop())
	if err != nil || first != len(sampleRooms) {
		t.Fatalf("first seed = %d, %v", first, err)
	}
	second, err := CreateSampleRooms(ctx, repos, zerolog.Nop())
	if err != nil || second != 0 {
		t.Fatalf("second seed = %d, %v", second, err)
	}

	list, err := repos.Admins.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("admins = %d, %v", len(list), err)
	}
}

func TestEnsureDefaultAdminSkipsWithoutPassword(t *testing.T) {
	repos := memory.New().Repositories()
	created, err := EnsureDefaultAdmin(context.Background(), repos, services.NewAdminService(repos, zerolog.Nop()),
		AdminAccount{Username: "admin"}, zerolog.Nop())
	if err != nil || created {
		t.Fatalf("created = %v, err = %v", created, err)
	}
}
