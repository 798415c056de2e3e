// Package storage persists rendered documents such as payslips.
package storage

import (
	"context"
	"io"
	"strings"
)

type FileInfo struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	FileType string `json:"file_type"`
}

type Store interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (FileInfo, error)
	URL(key string) string
}

func fileName(key string) string {
	return key[strings.LastIndex(key, "/")+1:]
}

// PayslipKey is the object key of a payroll's payslip inside a company prefix.
func PayslipKey(companyID, periodID, payrollNumber string) string {
	return "payslips/" + companyID + "/" + periodID + "/" + payrollNumber + ".pdf"
}
