package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/inventory-api/internal/domain/book"
	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

// MySQLBookRepository stores the catalog in MySQL.
type MySQLBookRepository struct {
	db *sql.DB
}

func NewMySQLBookRepository(db *sql.DB) *MySQLBookRepository {
	return &MySQLBookRepository{db: db}
}

func isDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

func (m *MySQLBookRepository) Create(ctx context.Context, b *book.Book) error {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO books (title, author, publication_year, isbn, price)
		VALUES (?, ?, ?, ?, ?)`,
		b.Title, b.Author, b.PublicationYear, b.ISBN, b.Price,
	)
	if isDuplicateEntry(err) {
		return book.ErrDuplicateISBN
	}
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read book id: %w", err)
	}
	b.ID = id
	return nil
}

func (m *MySQLBookRepository) List(ctx context.Context) ([]book.Book, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, title, author, publication_year, isbn, price
		FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := []book.Book{}
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear, &b.ISBN, &b.Price); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

func (m *MySQLBookRepository) Get(ctx context.Context, id int64) (*book.Book, error) {
	var b book.Book
	err := m.db.QueryRowContext(ctx, `
		SELECT id, title, author, publication_year, isbn, price
		FROM books WHERE id = ?`, id,
	).Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear, &b.ISBN, &b.Price)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, book.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query book: %w", err)
	}
	return &b, nil
}

// Update locks the row before writing it: MySQL reports zero affected rows
// for an update that changes nothing, so RowsAffected cannot tell a missing
// book apart from an unchanged one.
func (m *MySQLBookRepository) Update(ctx context.Context, b *book.Book) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM books WHERE id = ? FOR UPDATE`, b.ID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return book.ErrBookNotFound
	}
	if err != nil {
		return fmt.Errorf("lock book: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE books
		SET title = ?, author = ?, publication_year = ?, isbn = ?, price = ?
		WHERE id = ?`,
		b.Title, b.Author, b.PublicationYear, b.ISBN, b.Price, b.ID,
	)
	if isDuplicateEntry(err) {
		return book.ErrDuplicateISBN
	}
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	return tx.Commit()
}

func (m *MySQLBookRepository) Delete(ctx context.Context, id int64) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if rows == 0 {
		return book.ErrBookNotFound
	}
	return nil
}
