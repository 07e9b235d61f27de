// Package provision reconciles administrator accounts and officer rosters
// against the environment seed data. The routine is idempotent: rerunning it
// with unchanged seeds performs no writes.
package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartfir/fir-filing-api/config"
	"github.com/smartfir/fir-filing-api/databases"
	"github.com/smartfir/fir-filing-api/models"
)

const officersPerStation = 5

// Reconciler synchronizes identity records from seed configuration
type Reconciler struct {
	ADB databases.AdminDatabase
	ODB databases.OfficerDatabase
}

// New creates a Reconciler over the given identity stores
func New(adb databases.AdminDatabase, odb databases.OfficerDatabase) *Reconciler {
	return &Reconciler{ADB: adb, ODB: odb}
}

// Run performs the full startup reconciliation
func (r *Reconciler) Run(ctx context.Context, seeds []config.AdminSeed) error {
	if err := r.SyncAdmins(ctx, seeds); err != nil {
		return fmt.Errorf("sync admins: %w", err)
	}
	if err := r.SyncOfficers(ctx, seeds); err != nil {
		return fmt.Errorf("sync officers: %w", err)
	}
	return nil
}

// SyncAdmins creates a record per seed and updates existing records whose
// station name or password diverged from the seed. The seed source is
// authoritative; nothing is ever deleted.
func (r *Reconciler) SyncAdmins(ctx context.Context, seeds []config.AdminSeed) error {
	zap.S().Info("synchronizing admin data from environment")

	for _, seed := range seeds {
		existing, err := r.ADB.FindOne(ctx, bson.M{"admin_id": seed.AdminID})
		if err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				return err
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			_, err = r.ADB.InsertOne(ctx, models.Admin{
				AdminID:     seed.AdminID,
				Password:    string(hashed),
				StationName: seed.Station,
			})
			if err != nil {
				return err
			}
			zap.S().Infow("created new admin", "adminId", seed.AdminID)
			continue
		}

		stationChanged := existing.StationName != seed.Station
		passwordChanged := bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(seed.Password)) != nil
		if !stationChanged && !passwordChanged {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		err = r.ADB.UpdateOne(ctx,
			bson.M{"admin_id": seed.AdminID},
			bson.M{"$set": bson.M{
				"password":     string(hashed),
				"station_name": seed.Station,
			}},
		)
		if err != nil {
			return err
		}
		zap.S().Infow("updated details for admin", "adminId", seed.AdminID)
	}

	zap.S().Info("admin synchronization complete")
	return nil
}

// SyncOfficers provisions five officers per seeded station, deduplicated by
// badge identifier so reruns are no-ops.
func (r *Reconciler) SyncOfficers(ctx context.Context, seeds []config.AdminSeed) error {
	zap.S().Info("synchronizing officer data")

	for _, seed := range seeds {
		prefix := BadgePrefix(seed.AdminID)
		shortName := strings.SplitN(seed.Station, ",", 2)[0]

		for j := 1; j <= officersPerStation; j++ {
			badgeID := fmt.Sprintf("%s%02d", prefix, j)

			_, err := r.ODB.FindOne(ctx, bson.M{"badge_id": badgeID})
			if err == nil {
				continue
			}
			if !errors.Is(err, mongo.ErrNoDocuments) {
				return err
			}

			officer := models.Officer{
				Name:        fmt.Sprintf("%s Officer %d", shortName, j),
				BadgeID:     badgeID,
				StationName: seed.Station,
				IsActive:    true,
				CreatedAt:   primitive.NewDateTimeFromTime(time.Now().UTC()),
			}
			if _, err := r.ODB.InsertOne(ctx, officer); err != nil {
				return err
			}
			zap.S().Infow("created officer",
				"name", officer.Name,
				"badgeId", badgeID,
				"station", seed.Station,
			)
		}
	}
	return nil
}

// BadgePrefix derives the officer badge prefix from an admin identifier:
// the "PS" prefix is dropped along with any digits, e.g. PSTOSHAM01 -> TOSHAM
func BadgePrefix(adminID string) string {
	trimmed := strings.TrimPrefix(adminID, "PS")
	var b strings.Builder
	for _, r := range trimmed {
		if !unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
