// Package book implements the public book catalog.
package book

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateISBN = errors.New("book with this ISBN already exists")
	ErrInvalidBook   = errors.New("invalid book")
)

const maxISBNLength = 13

// Book is a catalog entry.
type Book struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	PublicationYear int     `json:"publication_year"`
	ISBN            string  `json:"isbn"`
	Price           float64 `json:"price"`
}

// Input holds the client-supplied fields of a book.
type Input struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	PublicationYear int     `json:"publication_year"`
	ISBN            string  `json:"isbn"`
	Price           float64 `json:"price"`
}

func (in Input) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidBook)
	case strings.TrimSpace(in.Author) == "":
		return fmt.Errorf("%w: author is required", ErrInvalidBook)
	case strings.TrimSpace(in.ISBN) == "":
		return fmt.Errorf("%w: isbn is required", ErrInvalidBook)
	case len(in.ISBN) > maxISBNLength:
		return fmt.Errorf("%w: isbn must be at most %d characters", ErrInvalidBook, maxISBNLength)
	case in.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidBook)
	}
	return nil
}

func (in Input) book(id int64) *Book {
	return &Book{
		ID:              id,
		Title:           in.Title,
		Author:          in.Author,
		PublicationYear: in.PublicationYear,
		ISBN:            in.ISBN,
		Price:           in.Price,
	}
}

// SampleBooks is the seed catalog loaded by cmd/populate.
var SampleBooks = []Input{
	{Title: "1984", Author: "George Orwell", PublicationYear: 1949, ISBN: "1234567890123", Price: 10.99},
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", PublicationYear: 1960, ISBN: "1234567890124", Price: 10.99},
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", PublicationYear: 1925, ISBN: "1234567890125", Price: 12.99},
	{Title: "Pride and Prejudice", Author: "Jane Austen", PublicationYear: 1813, ISBN: "1234567890126", Price: 9.99},
	{Title: "The Shining", Author: "Stephen King", PublicationYear: 1977, ISBN: "1234567890127", Price: 14.99},
	{Title: "Pet Sematary", Author: "Stephen King", PublicationYear: 1983, ISBN: "1234567890128", Price: 13.99},
	{Title: "It", Author: "Stephen King", PublicationYear: 1986, ISBN: "1234567890129", Price: 18.99},
	{Title: "Carrie", Author: "Stephen King", PublicationYear: 1974, ISBN: "1234567890130", Price: 12.99},
	{Title: "Misery", Author: "Stephen King", PublicationYear: 1987, ISBN: "1234567890131", Price: 14.49},
	{Title: "The Stand", Author: "Stephen King", PublicationYear: 1978, ISBN: "1234567890132", Price: 19.99},
	{Title: "Salem's Lot", Author: "Stephen King", PublicationYear: 1975, ISBN: "1234567890133", Price: 13.49},
	{Title: "Doctor Sleep", Author: "Stephen King", PublicationYear: 2013, ISBN: "1234567890134", Price: 15.99},
	{Title: "Christine", Author: "Stephen King", PublicationYear: 1983, ISBN: "1234567890135", Price: 12.99},
}
