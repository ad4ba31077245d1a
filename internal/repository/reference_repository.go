package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CategoryRepository manages ticket categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

// PriorityRepository manages ticket priorities.
type PriorityRepository interface {
	Create(ctx context.Context, priority *domain.Priority) error
	Update(ctx context.Context, priority *domain.Priority) error
	GetByID(ctx context.Context, id int64) (*domain.Priority, error)
	List(ctx context.Context) ([]domain.Priority, error)
	Delete(ctx context.Context, id int64) error
}

// SoftwareRepository manages the software catalog.
type SoftwareRepository interface {
	Create(ctx context.Context, software *domain.Software) error
	Update(ctx context.Context, software *domain.Software) error
	GetByID(ctx context.Context, id int64) (*domain.Software, error)
	List(ctx context.Context) ([]domain.Software, error)
	Delete(ctx context.Context, id int64) error
}

// lookupTable shares the plumbing for the simple name-keyed tables.
type lookupTable struct {
	pool  *pgxpool.Pool
	table string
}

func (t *lookupTable) insertName(ctx context.Context, name string) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id`, t.table)
	var id int64
	err := querierFrom(ctx, t.pool).QueryRow(ctx, query, name).Scan(&id)
	return id, err
}

func (t *lookupTable) updateName(ctx context.Context, id int64, name string) error {
	query := fmt.Sprintf(`UPDATE %s SET name=$1 WHERE id=$2`, t.table)
	cmd, err := querierFrom(ctx, t.pool).Exec(ctx, query, name, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (t *lookupTable) getName(ctx context.Context, id int64) (string, error) {
	query := fmt.Sprintf(`SELECT name FROM %s WHERE id=$1`, t.table)
	var name string
	err := querierFrom(ctx, t.pool).QueryRow(ctx, query, id).Scan(&name)
	return name, err
}

func (t *lookupTable) listNames(ctx context.Context) ([]int64, []string, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name ASC`, t.table)
	rows, err := querierFrom(ctx, t.pool).Query(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var ids []int64
	var names []string
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
		names = append(names, name)
	}
	return ids, names, rows.Err()
}

func (t *lookupTable) deleteRow(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, t.table)
	cmd, err := querierFrom(ctx, t.pool).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type categoryRepository struct {
	lookupTable
}

// NewCategoryRepository constructs the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{lookupTable{pool: pool, table: "categories"}}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	id, err := r.insertName(ctx, category.Name)
	if err != nil {
		return err
	}
	category.ID = id
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	return r.updateName(ctx, category.ID, category.Name)
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	name, err := r.getName(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Category{ID: id, Name: name}, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	ids, names, err := r.listNames(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Category, 0, len(ids))
	for i := range ids {
		result = append(result, domain.Category{ID: ids[i], Name: names[i]})
	}
	return result, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, id)
}

type priorityRepository struct {
	lookupTable
}

// NewPriorityRepository constructs the repository.
func NewPriorityRepository(pool *pgxpool.Pool) PriorityRepository {
	return &priorityRepository{lookupTable{pool: pool, table: "priorities"}}
}

func (r *priorityRepository) Create(ctx context.Context, priority *domain.Priority) error {
	id, err := r.insertName(ctx, priority.Name)
	if err != nil {
		return err
	}
	priority.ID = id
	return nil
}

func (r *priorityRepository) Update(ctx context.Context, priority *domain.Priority) error {
	return r.updateName(ctx, priority.ID, priority.Name)
}

func (r *priorityRepository) GetByID(ctx context.Context, id int64) (*domain.Priority, error) {
	name, err := r.getName(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Priority{ID: id, Name: name}, nil
}

func (r *priorityRepository) List(ctx context.Context) ([]domain.Priority, error) {
	ids, names, err := r.listNames(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Priority, 0, len(ids))
	for i := range ids {
		result = append(result, domain.Priority{ID: ids[i], Name: names[i]})
	}
	return result, nil
}

func (r *priorityRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, id)
}

type softwareRepository struct {
	pool *pgxpool.Pool
}

// NewSoftwareRepository constructs the repository. Software carries a
// version column, so it does not reuse the name-only lookup plumbing.
func NewSoftwareRepository(pool *pgxpool.Pool) SoftwareRepository {
	return &softwareRepository{pool: pool}
}

func (r *softwareRepository) Create(ctx context.Context, software *domain.Software) error {
	const query = `INSERT INTO software (name, version) VALUES ($1,$2) RETURNING id`
	return querierFrom(ctx, r.pool).QueryRow(ctx, query, software.Name, software.Version).Scan(&software.ID)
}

func (r *softwareRepository) Update(ctx context.Context, software *domain.Software) error {
	const query = `UPDATE software SET name=$1, version=$2 WHERE id=$3`
	cmd, err := querierFrom(ctx, r.pool).Exec(ctx, query, software.Name, software.Version, software.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *softwareRepository) GetByID(ctx context.Context, id int64) (*domain.Software, error) {
	const query = `SELECT id, name, version FROM software WHERE id=$1`
	var software domain.Software
	if err := querierFrom(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&software.ID,
		&software.Name,
		&software.Version,
	); err != nil {
		return nil, err
	}
	return &software, nil
}

func (r *softwareRepository) List(ctx context.Context) ([]domain.Software, error) {
	const query = `SELECT id, name, version FROM software ORDER BY name ASC`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Software
	for rows.Next() {
		var software domain.Software
		if err := rows.Scan(&software.ID, &software.Name, &software.Version); err != nil {
			return nil, err
		}
		result = append(result, software)
	}
	return result, rows.Err()
}

func (r *softwareRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM software WHERE id=$1`
	cmd, err := querierFrom(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
