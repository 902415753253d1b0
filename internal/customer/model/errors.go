package model

import "errors"

var (
	// ErrNotReady — операция до первой успешной загрузки данных.
	ErrNotReady = errors.New("no processed data: load a workbook first")

	// ErrLoad — входной файл не прочитан/не распознан.
	ErrLoad = errors.New("load failed")

	// ErrRecordNotFound — мутация по несуществующему RecordID.
	ErrRecordNotFound = errors.New("record not found")
)
