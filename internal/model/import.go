package model

// FileRole 销售文件角色
type FileRole string

const (
	RoleLastYear FileRole = "lastYear"
	RolePlan     FileRole = "plan"
	RoleThisYear FileRole = "thisYear"
)

// CarriesCustomers 该角色的文件是否产出客户级数据
func (r FileRole) CarriesCustomers() bool {
	return r == RoleLastYear || r == RoleThisYear
}

// UploadKind 上传入口类型
type UploadKind string

const (
	UploadAuto        UploadKind = "auto"
	UploadPerformance UploadKind = "performance"
	UploadCustomers   UploadKind = "customers"
)

// ParseUploadKind 解析上传类型，空值视为 auto
func ParseUploadKind(s string) (UploadKind, bool) {
	switch UploadKind(s) {
	case "", UploadAuto:
		return UploadAuto, true
	case UploadPerformance, UploadCustomers:
		return UploadKind(s), true
	}
	return "", false
}

// FileStatus 单个文件的导入结果
type FileStatus string

const (
	FileImported FileStatus = "imported"
	FileSkipped  FileStatus = "skipped"
	FileError    FileStatus = "error"
)

// ImportLogEntry 导入日志
type ImportLogEntry struct {
	ID            int64  `json:"id" db:"id"`
	BatchID       string `json:"batchId" db:"batch_id"`
	Kind          string `json:"kind" db:"kind"`
	FileCount     int    `json:"fileCount" db:"file_count"`
	ImportedFiles int    `json:"importedFiles" db:"imported_files"`
	SkippedFiles  int    `json:"skippedFiles" db:"skipped_files"`
	ErrorFiles    int    `json:"errorFiles" db:"error_files"`
	Status        string `json:"status" db:"status"`
	Message       string `json:"message" db:"message"`
	StartedAt     string `json:"startedAt" db:"started_at"`
	FinishedAt    string `json:"finishedAt" db:"finished_at"`
}
