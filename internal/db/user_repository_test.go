package db

import (
	"context"
	"testing"
	"time"

	"github.com/terraincognita07/healthlog/internal/models"
)

func TestUserRepositoryRejectsDuplicatePhone(t *testing.T) {
	database := openTestDatabase(t)
	createTestUser(t, database, "0899999999", false)

	duplicate := models.User{Phone: "0899999999", PasswordHash: "hash-2"}
	if err := NewUserRepository(database).Create(context.Background(), &duplicate); err == nil {
		t.Fatal("expected duplicate phone insert to fail")
	}
}

func TestUserRepositoryUpdatesConsent(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewUserRepository(database)
	ctx := context.Background()
	user := createTestUser(t, database, "0811111111", false)

	if err := repo.UpdateConsent(ctx, user.ID, true); err != nil {
		t.Fatalf("update consent: %v", err)
	}
	reloaded, err := repo.FindByPhone(ctx, "0811111111")
	if err != nil {
		t.Fatalf("find by phone: %v", err)
	}
	if !reloaded.Consent {
		t.Fatal("expected consent to be stored")
	}
}

func TestListWithStaleRecordsPreloadsOnlyStaleReadings(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewUserRepository(database)
	cutoff := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	mixed := createTestUser(t, database, "0820000001", true)
	createPressure(t, database, mixed.ID, cutoff.AddDate(0, 0, -10), models.TimeOfDayMorning)
	createPressure(t, database, mixed.ID, cutoff.AddDate(0, 0, 5), models.TimeOfDayMorning)
	createSugar(t, database, mixed.ID, cutoff.AddDate(0, 0, 1), models.NumericSugar(110))

	sugarOnly := createTestUser(t, database, "0820000002", false)
	createSugar(t, database, sugarOnly.ID, cutoff.AddDate(0, -1, 0), models.LowSugar())

	fresh := createTestUser(t, database, "0820000003", true)
	createPressure(t, database, fresh.ID, cutoff.AddDate(0, 0, 2), models.TimeOfDayEvening)

	users, err := repo.ListWithStaleRecords(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("list users with stale records: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users with stale records, got %d", len(users))
	}

	if users[0].ID != mixed.ID {
		t.Fatalf("expected mixed user first, got %d", users[0].ID)
	}
	if len(users[0].BloodPressureRecords) != 1 || len(users[0].BloodSugarRecords) != 0 {
		t.Fatalf("expected only stale readings preloaded, got bp=%d bs=%d",
			len(users[0].BloodPressureRecords), len(users[0].BloodSugarRecords))
	}
	if users[1].ID != sugarOnly.ID || len(users[1].BloodSugarRecords) != 1 {
		t.Fatalf("expected sugar-only user with one stale reading, got %+v", users[1])
	}
}

func TestEmailLogRepositoryAppends(t *testing.T) {
	database := openTestDatabase(t)
	repo := NewEmailLogRepository(database)
	ctx := context.Background()
	user := createTestUser(t, database, "0830000001", true)

	entry := models.EmailLog{
		UserID:    user.ID,
		Type:      models.EmailTypeBeforeDeletion,
		Status:    models.EmailStatusSent,
		Recipient: "clinic@example.com",
		SentAt:    time.Now().UTC(),
	}
	if err := repo.Create(ctx, &entry); err != nil {
		t.Fatalf("create email log: %v", err)
	}

	entries, err := repo.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list email logs: %v", err)
	}
	if len(entries) != 1 || entries[0].Type != models.EmailTypeBeforeDeletion {
		t.Fatalf("unexpected email logs %+v", entries)
	}
}
