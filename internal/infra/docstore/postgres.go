package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// fixed width keeps lexical order equal to chronological order inside JSONB
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type documentRow struct {
	Collection string            `gorm:"type:text;primaryKey"`
	ID         string            `gorm:"type:text;primaryKey"`
	Data       datatypes.JSONMap `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time         `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP;index"`
}

func (documentRow) TableName() string { return "documents" }

func (r *documentRow) toDocument() *Document {
	data := map[string]any(r.Data)
	if data == nil {
		data = map[string]any{}
	}
	return &Document{
		Collection: r.Collection,
		ID:         r.ID,
		Data:       data,
		CreateTime: r.CreatedAt.UTC(),
		UpdateTime: r.UpdatedAt.UTC(),
	}
}

type postgresStore struct {
	db *gorm.DB
}

// NewPostgres stores every collection in a single JSONB table keyed by
// (collection, id).
func NewPostgres(db *gorm.DB) Store {
	return &postgresStore{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&documentRow{})
}

func (s *postgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return nil, err
	}
	return row.toDocument(), nil
}

func (s *postgresStore) Query(ctx context.Context, collection string, filters ...Filter) ([]*Document, error) {
	q := s.db.WithContext(ctx).Where("collection = ?", collection)
	for _, f := range filters {
		switch f.Op {
		case OpEqual:
			q = q.Where("data ->> ? = ?", f.Field, textValue(f.Value))
		case OpLess:
			q = q.Where(`(data ->> ?) COLLATE "C" < ?`, f.Field, textValue(f.Value))
		case OpArrayContains:
			needle, err := sonic.Marshal([]any{encodeValue(f.Value)})
			if err != nil {
				return nil, fmt.Errorf("encode filter %s: %w", f.Field, err)
			}
			q = q.Where("data -> ? @> ?::jsonb", f.Field, string(needle))
		default:
			return nil, fmt.Errorf("unsupported filter op %q", f.Op)
		}
	}

	var rows []documentRow
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*Document, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDocument())
	}
	return out, nil
}

func (s *postgresStore) Commit(ctx context.Context, writes ...Write) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, w := range writes {
			if err := applyWrite(tx, w, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyWrite(tx *gorm.DB, w Write, now time.Time) error {
	switch w.Kind {
	case WriteCreate:
		row := documentRow{
			Collection: w.Collection,
			ID:         w.ID,
			Data:       encodeData(resolveData(w.Data, now)),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%s/%s: %w", w.Collection, w.ID, ErrAlreadyExists)
			}
			return err
		}
	case WriteSet:
		row := documentRow{
			Collection: w.Collection,
			ID:         w.ID,
			Data:       encodeData(resolveData(w.Data, now)),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).Create(&row).Error
	case WriteUpdate:
		var row documentRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection = ? AND id = ?", w.Collection, w.ID).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%s/%s: %w", w.Collection, w.ID, ErrNotFound)
			}
			return err
		}
		data := map[string]any(row.Data)
		if data == nil {
			data = map[string]any{}
		}
		applyUpdates(data, w.Updates, now)
		return tx.Model(&documentRow{}).
			Where("collection = ? AND id = ?", w.Collection, w.ID).
			Updates(map[string]any{
				"data":       encodeData(data),
				"updated_at": now,
			}).Error
	case WriteDelete:
		return tx.Where("collection = ? AND id = ?", w.Collection, w.ID).
			Delete(&documentRow{}).Error
	default:
		return fmt.Errorf("unknown write kind %d", w.Kind)
	}
	return nil
}

func encodeData(data map[string]any) datatypes.JSONMap {
	return datatypes.JSONMap(encodeValue(data).(map[string]any))
}

// encodeValue turns times into fixed-width UTC strings so that range filters
// on JSONB text compare chronologically.
func encodeValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(timeLayout)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(timeLayout)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = encodeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = encodeValue(val)
		}
		return out
	default:
		return v
	}
}

// textValue renders a filter operand the way ->> renders the stored value.
func textValue(v any) string {
	switch t := encodeValue(v).(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		b, err := sonic.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func (s *postgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
