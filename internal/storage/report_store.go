package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/annel0/blockpacks/internal/pack"
	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"
)

const (
	reportPrefix = "report:"
	latestKey    = "latest"
)

// ErrNotReady возвращается после Close
var ErrNotReady = fmt.Errorf("хранилище не готово")

// ReportStore хранит отчёты компиляции паков в BadgerDB.
// Значения сериализуются в JSON и сжимаются zstd.
type ReportStore struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewReportStore открывает хранилище в каталоге dataPath
func NewReportStore(dataPath string) (*ReportStore, error) {
	opts := badger.DefaultOptions(dataPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	return open(opts)
}

// NewInMemoryReportStore хранилище без файлов, для тестов и одноразовых запусков
func NewInMemoryReportStore() (*ReportStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts)
}

func open(opts badger.Options) (*ReportStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd decoder: %w", err)
	}

	return &ReportStore{
		db:      db,
		dbPath:  opts.Dir,
		isReady: true,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Close закрывает хранилище
func (rs *ReportStore) Close() error {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	if !rs.isReady {
		return nil
	}

	rs.isReady = false
	rs.encoder.Close()
	rs.decoder.Close()
	return rs.db.Close()
}

// Save сохраняет отчёт под его сессией и помечает его последним
func (rs *ReportStore) Save(report *pack.Report) error {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()

	if !rs.isReady {
		return ErrNotReady
	}
	if report == nil || report.Session == "" {
		return fmt.Errorf("отчёт без сессии")
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("ошибка сериализации отчёта: %w", err)
	}
	data = rs.encoder.EncodeAll(data, nil)

	err = rs.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(reportPrefix+report.Session), data); err != nil {
			return err
		}
		return txn.Set([]byte(latestKey), []byte(report.Session))
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	return nil
}

// Get загружает отчёт по сессии. Отсутствующий отчёт даёт (nil, nil).
func (rs *ReportStore) Get(session string) (*pack.Report, error) {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()

	if !rs.isReady {
		return nil, ErrNotReady
	}

	data, err := rs.read(reportPrefix + session)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	return rs.decode(data)
}

// Latest последний сохранённый отчёт или nil
func (rs *ReportStore) Latest() (*pack.Report, error) {
	rs.mutex.RLock()
	if !rs.isReady {
		rs.mutex.RUnlock()
		return nil, ErrNotReady
	}
	session, err := rs.read(latestKey)
	rs.mutex.RUnlock()

	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	return rs.Get(string(session))
}

// List сессии всех отчётов в порядке времени запуска
func (rs *ReportStore) List() ([]string, error) {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()

	if !rs.isReady {
		return nil, ErrNotReady
	}

	type entry struct {
		session string
		report  *pack.Report
	}
	var entries []entry

	err := rs.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			session := string(item.Key()[len(reportPrefix):])
			err := item.Value(func(val []byte) error {
				report, err := rs.decode(val)
				if err != nil {
					return err
				}
				entries = append(entries, entry{session: session, report: report})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].report.StartedAt.Before(entries[j].report.StartedAt)
	})

	sessions := make([]string, len(entries))
	for i, e := range entries {
		sessions[i] = e.session
	}
	return sessions, nil
}

func (rs *ReportStore) read(key string) ([]byte, error) {
	var data []byte
	err := rs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	return data, err
}

func (rs *ReportStore) decode(data []byte) (*pack.Report, error) {
	raw, err := rs.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки отчёта: %w", err)
	}

	var report pack.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("ошибка десериализации отчёта: %w", err)
	}
	return &report, nil
}
