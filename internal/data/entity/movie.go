package entity

type Movie struct {
	Base
	Title    string `db:"title"`
	Synopsis string `db:"synopsis"`
}
