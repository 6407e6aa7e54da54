package payroll

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"payslip/domain/core"
)

// UploadField is the multipart field both HTTP surfaces read the spreadsheet from.
const UploadField = "dataset"

var allowedUploadExt = map[string]bool{".xlsx": true, ".csv": true}

// ReadUpload reads a multipart spreadsheet, enforcing the size limit and the
// accepted extensions.
func ReadUpload(fh *multipart.FileHeader, maxBytes int64) (Upload, error) {
	if fh == nil {
		return Upload{}, core.NewUploadError("read", errors.New("no file"))
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedUploadExt[ext] {
		return Upload{}, core.NewUploadError("read", fmt.Errorf("unsupported file type %q (use .xlsx or .csv)", ext))
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return Upload{}, core.NewUploadError("read", fmt.Errorf("file is %d bytes, limit is %d", fh.Size, maxBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return Upload{}, core.NewUploadError("read", err)
	}
	defer f.Close()

	r := io.Reader(f)
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Upload{}, core.NewUploadError("read", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return Upload{}, core.NewUploadError("read", fmt.Errorf("file exceeds %d bytes", maxBytes))
	}
	return Upload{FileName: filepath.Base(fh.Filename), Data: data}, nil
}
