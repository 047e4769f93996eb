package repository

import (
	"context"
	"database/sql"
	"time"

	"OptionPulse/internal/domain/models"
	"OptionPulse/internal/domain/repository"
	pkgch "OptionPulse/pkg/clickhouse"
	pkgkafka "OptionPulse/pkg/kafka"
)

// KafkaJournal implements Publisher, exporting closed trades to a topic.
type KafkaJournal struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaJournal creates a Kafka trade journal.
func NewKafkaJournal(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaJournal{producer: producer, topic: topic}
}

func (p *KafkaJournal) Publish(ctx context.Context, rec *models.TradeRecord) error {
	return p.producer.Publish(ctx, p.topic, []byte(rec.Asset), map[string]interface{}{
		"asset":     rec.Asset,
		"amount":    rec.Amount,
		"direction": string(rec.Direction),
		"ts":        rec.Timestamp.Unix(),
		"order_id":  rec.OrderID,
		"result":    string(rec.Result),
		"pl":        rec.ProfitLoss,
	})
}

func (p *KafkaJournal) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// ClickHouseJournal implements Storage, exporting closed trades to a
// ClickHouse table. Rows are never read back; the ledger stays the
// source of truth for the trading day.
type ClickHouseJournal struct {
	db    *sql.DB
	table string
}

// NewClickHouseJournal creates a ClickHouse trade journal.
func NewClickHouseJournal(ch *pkgch.Client, table string) repository.Storage {
	return &ClickHouseJournal{db: ch.DB(), table: table}
}

func (s *ClickHouseJournal) Init(ctx context.Context) error {
	q := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
		ts        DateTime,
		asset     String,
		direction String,
		amount    Float64,
		order_id  String,
		result    String,
		pl        Float64
	) ENGINE = MergeTree()
	ORDER BY (asset, ts)`
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *ClickHouseJournal) Store(ctx context.Context, rec *models.TradeRecord) error {
	q := "INSERT INTO " + s.table + " (ts, asset, direction, amount, order_id, result, pl) VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err := s.db.ExecContext(ctx, q,
		rec.Timestamp.Truncate(time.Second),
		rec.Asset,
		string(rec.Direction),
		rec.Amount,
		rec.OrderID,
		string(rec.Result),
		rec.ProfitLoss,
	)
	return err
}

func (s *ClickHouseJournal) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseJournal) Close() error {
	return nil // pool is owned by pkg/clickhouse
}
