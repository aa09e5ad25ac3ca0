package persistence

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/markusressel/papr2go/internal/controller"
	"github.com/markusressel/papr2go/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketStatusReports = "statusReports"
)

// Persistence keeps a history of status reports, per device. The history is
// for diagnostics only, the firmware never reads it.
type Persistence interface {
	Init() error

	SaveStatusReport(status controller.Status) error
	// LoadStatusReports returns the latest reports of the given device, oldest first.
	// A limit <= 0 returns all of them.
	LoadStatusReports(deviceId string, limit int) ([]controller.Status, error)
	DeleteStatusReports(deviceId string) error
	// ListDevices returns the ids of all devices with a history.
	ListDevices() ([]string, error)
}

type persistence struct {
	dbPath string
	// oldest reports are dropped beyond this size, 0 keeps everything
	maxReports int
}

func NewPersistence(dbPath string, maxReports int) Persistence {
	p := &persistence{
		dbPath:     dbPath,
		maxReports: maxReports,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func sequenceKey(sequence uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, sequence)
	return key
}

// SaveStatusReport appends the given report to the history of its device
func (p persistence) SaveStatusReport(status controller.Status) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists([]byte(BucketStatusReports))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		b, err := root.CreateBucketIfNotExists([]byte(status.DeviceId))
		if err != nil {
			return fmt.Errorf("create bucket for device %s: %w", status.DeviceId, err)
		}

		sequence, err := b.NextSequence()
		if err != nil {
			return err
		}
		err = b.Put(sequenceKey(sequence), data)
		if err != nil {
			return err
		}

		return p.prune(b, sequence)
	})
}

// prune drops the oldest reports, keeping the latest maxReports
func (p persistence) prune(b *bolt.Bucket, latest uint64) error {
	if p.maxReports <= 0 || latest <= uint64(p.maxReports) {
		return nil
	}
	oldest := latest - uint64(p.maxReports)
	c := b.Cursor()
	for k, _ := c.First(); k != nil && binary.BigEndian.Uint64(k) <= oldest; k, _ = c.First() {
		if err := c.Delete(); err != nil {
			return err
		}
	}
	return nil
}

// LoadStatusReports loads the history of the given device
func (p persistence) LoadStatusReports(deviceId string, limit int) ([]controller.Status, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var reports []controller.Status
	err = db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(BucketStatusReports))
		if root == nil {
			return os.ErrNotExist
		}
		b := root.Bucket([]byte(deviceId))
		if b == nil {
			return os.ErrNotExist
		}

		var corrupt [][]byte
		c := b.Cursor()
		for k, v := c.Last(); k != nil && (limit <= 0 || len(reports) < limit); k, v = c.Prev() {
			var status controller.Status
			err := json.Unmarshal(v, &status)
			if err != nil {
				ui.Warning("Unable to unmarshal saved status report %x of %s: %v", k, deviceId, err)
				corrupt = append(corrupt, k)
				continue
			}
			reports = append(reports, status)
		}

		// if we cannot read the saved data, delete it
		for _, k := range corrupt {
			err := b.Delete(k)
			if err != nil {
				ui.Error("Unable to delete corrupt data key %x: %v", k, err)
			}
		}
		return nil
	})

	// oldest first
	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}

	return reports, err
}

func (p persistence) DeleteStatusReports(deviceId string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(BucketStatusReports))
		if root == nil {
			// no history yet
			return nil
		}
		if root.Bucket([]byte(deviceId)) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(deviceId))
	})
}

func (p persistence) ListDevices() ([]string, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var devices []string
	err = db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(BucketStatusReports))
		if root == nil {
			return nil
		}
		return root.ForEach(func(k, v []byte) error {
			// nested buckets have no value
			if v == nil {
				devices = append(devices, string(k))
			}
			return nil
		})
	})
	return devices, err
}
