package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/johnewart/go-clubmember/club"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PgClub struct {
	Club      string         `gorm:"primaryKey"`
	Members   pq.StringArray `gorm:"type:text[]"`
	UpdatedAt int64
}

func (p PgClub) TableName() string {
	return "club_members"
}

type PostgresqlStore struct {
	MemberStore
	db      *gorm.DB
	club    string
	locking bool
}

func NewPostgresqlMemberStore(dsn string, clubName string) (*PostgresqlStore, error) {
	if db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{}); err != nil {
		return nil, err
	} else {
		return &PostgresqlStore{db: db, club: clubName}, nil
	}
}

func (p *PostgresqlStore) Migrate() error {
	if err := p.db.AutoMigrate(&PgClub{}); err != nil {
		return fmt.Errorf("unable to migrate %s: %v", PgClub{}.TableName(), err)
	}
	return nil
}

func (p *PostgresqlStore) GetMembers(ctx context.Context) (club.Members, error) {
	rows := make([]PgClub, 0)
	query := p.db.WithContext(ctx).Where("club = ?", p.club).Limit(1)
	if p.locking {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if result := query.Find(&rows); result.Error != nil {
		return nil, result.Error
	} else {
		if len(rows) == 0 {
			return club.Members{}, nil
		}
		return club.MembersFromStrings(rows[0].Members), nil
	}
}

func (p *PostgresqlStore) PutMembers(ctx context.Context, members club.Members) error {
	upsertClause := clause.OnConflict{UpdateAll: true}
	pgClub := PgClub{
		Club:      p.club,
		Members:   pq.StringArray(members.Strings()),
		UpdatedAt: time.Now().UnixMicro(),
	}
	return p.db.WithContext(ctx).Clauses(upsertClause).Create(&pgClub).Error
}

// WithinTransaction creates the club row if it is missing and then reads it with FOR
// UPDATE, so concurrent daemons sharing a database serialize on the row even for a
// club's first write.
func (p *PostgresqlStore) WithinTransaction(ctx context.Context, fn func(MemberStore) error) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := PgClub{
			Club:      p.club,
			Members:   pq.StringArray{},
			UpdatedAt: time.Now().UnixMicro(),
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return fmt.Errorf("unable to create club %s: %v", p.club, err)
		}
		return fn(&PostgresqlStore{db: tx, club: p.club, locking: true})
	})
}
