package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/member"
)

type memberRow struct {
	ID             string    `db:"id"`
	OrgID          string    `db:"org_id"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	FatherName     string    `db:"father_name"`
	MotherFullName string    `db:"mother_full_name"`
	BloodType      string    `db:"blood_type"`
	EducationLevel string    `db:"education_level"`
	SchoolName     string    `db:"school_name"`
	FatherPhone    string    `db:"father_phone"`
	Category       string    `db:"category"`
	NationalID     string    `db:"national_id"`
	IDCardNumber   string    `db:"id_card_number"`
	Address        string    `db:"address"`
	PhotoURL       string    `db:"photo_url"`
	Role           string    `db:"role"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r memberRow) toMember() member.SportsMember {
	return member.SportsMember{
		ID:             r.ID,
		OrgID:          r.OrgID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		FatherName:     r.FatherName,
		MotherFullName: r.MotherFullName,
		BloodType:      r.BloodType,
		EducationLevel: r.EducationLevel,
		SchoolName:     r.SchoolName,
		FatherPhone:    r.FatherPhone,
		Category:       r.Category,
		NationalID:     r.NationalID,
		IDCardNumber:   r.IDCardNumber,
		Address:        r.Address,
		PhotoURL:       r.PhotoURL,
		Role:           r.Role,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

func toMembers(rows []memberRow) []member.SportsMember {
	members := make([]member.SportsMember, len(rows))
	for i, r := range rows {
		members[i] = r.toMember()
	}
	return members
}

type memberRepository struct {
	db *sqlx.DB
}

var _ member.Repository = (*memberRepository)(nil)

func NewMemberRepository(db *sqlx.DB) member.Repository {
	return &memberRepository{db: db}
}

func (repo *memberRepository) CheckNationalIDUniqueness(ctx context.Context, orgID, nationalID string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT true FROM member WHERE org_id = $1 AND national_id = $2 LIMIT 1`, orgID, nationalID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return errors.Wrap(err, "checking national ID uniqueness")
	}
	return member.ErrNationalIDExists
}

func (repo *memberRepository) CreateMember(ctx context.Context, m member.SportsMember) (member.SportsMember, error) {
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO member (id, org_id, first_name, last_name, father_name, mother_full_name, blood_type,
		                     education_level, school_name, father_phone, category, national_id, id_card_number,
		                     address, photo_url, role, created_at, updated_at)
		 VALUES (:id, :org_id, :first_name, :last_name, :father_name, :mother_full_name, :blood_type,
		         :education_level, :school_name, :father_phone, :category, :national_id, :id_card_number,
		         :address, :photo_url, :role, :created_at, :updated_at)`,
		memberRow{
			ID: m.ID, OrgID: m.OrgID, FirstName: m.FirstName, LastName: m.LastName,
			FatherName: m.FatherName, MotherFullName: m.MotherFullName, BloodType: m.BloodType,
			EducationLevel: m.EducationLevel, SchoolName: m.SchoolName, FatherPhone: m.FatherPhone,
			Category: m.Category, NationalID: m.NationalID, IDCardNumber: m.IDCardNumber,
			Address: m.Address, PhotoURL: m.PhotoURL, Role: m.Role,
			CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
		})
	if err != nil {
		return member.SportsMember{}, errors.Wrap(err, "creating member")
	}
	return m, nil
}

func (repo *memberRepository) QueryAllMembers(ctx context.Context, orgID string) ([]member.SportsMember, error) {
	var rows []memberRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM member WHERE org_id = $1 ORDER BY last_name, first_name`, orgID)
	if err != nil {
		return nil, errors.Wrap(err, "querying members")
	}
	return toMembers(rows), nil
}

func (repo *memberRepository) GetMemberByID(ctx context.Context, orgID, id string) (member.SportsMember, error) {
	var row memberRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM member WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return member.SportsMember{}, member.ErrNotFound
		}
		return member.SportsMember{}, errors.Wrap(err, "getting member")
	}
	return row.toMember(), nil
}

func (repo *memberRepository) FilterMembers(ctx context.Context, orgID string, filter member.QueryFilter, ordering ...core.DBOrdering) ([]member.SportsMember, error) {
	where := []string{"org_id = $1"}
	args := []interface{}{orgID}
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf("(first_name ILIKE %[1]s OR last_name ILIKE %[1]s OR national_id ILIKE %[1]s)", p))
	}
	if filter.Role != "" {
		where = append(where, "role = "+arg(filter.Role))
	}
	if filter.Category != "" {
		where = append(where, "category = "+arg(filter.Category))
	}
	if !filter.CreatedFrom.IsZero() {
		where = append(where, "created_at >= "+arg(filter.CreatedFrom))
	}
	if !filter.CreatedTo.IsZero() {
		where = append(where, "created_at <= "+arg(filter.CreatedTo))
	}

	query := `SELECT * FROM member WHERE ` + strings.Join(where, " AND ") + orderBy(ordering, "last_name, first_name")

	var rows []memberRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering members")
	}
	return toMembers(rows), nil
}

func (repo *memberRepository) UpdateMember(ctx context.Context, m member.SportsMember) (member.SportsMember, error) {
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE member SET
			first_name = :first_name, last_name = :last_name, father_name = :father_name,
			mother_full_name = :mother_full_name, blood_type = :blood_type,
			education_level = :education_level, school_name = :school_name,
			father_phone = :father_phone, category = :category, national_id = :national_id,
			id_card_number = :id_card_number, address = :address, photo_url = :photo_url,
			role = :role, updated_at = :updated_at
		 WHERE org_id = :org_id AND id = :id`,
		memberRow{
			ID: m.ID, OrgID: m.OrgID, FirstName: m.FirstName, LastName: m.LastName,
			FatherName: m.FatherName, MotherFullName: m.MotherFullName, BloodType: m.BloodType,
			EducationLevel: m.EducationLevel, SchoolName: m.SchoolName, FatherPhone: m.FatherPhone,
			Category: m.Category, NationalID: m.NationalID, IDCardNumber: m.IDCardNumber,
			Address: m.Address, PhotoURL: m.PhotoURL, Role: m.Role, UpdatedAt: m.UpdatedAt,
		})
	if err != nil {
		return member.SportsMember{}, errors.Wrap(err, "updating member")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return member.SportsMember{}, member.ErrNotFound
	}
	return repo.GetMemberByID(ctx, m.OrgID, m.ID)
}

func (repo *memberRepository) DeleteMembersByID(ctx context.Context, orgID string, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM member WHERE org_id = $1 AND id = ANY($2)`, orgID, pq.Array(ids))
	return errors.Wrap(err, "deleting members")
}
