package models

import (
	"time"
)

// FileResourceType identifies which entity a stored file belongs to
type FileResourceType string

const (
	ResourceAssignment FileResourceType = "ASSIGNMENT"
	ResourceSubmission FileResourceType = "SUBMISSION"
	ResourceMaterial   FileResourceType = "MATERIAL"
	ResourceStory      FileResourceType = "STORY"
	ResourceProfile    FileResourceType = "PROFILE"
)

// File defines stored file metadata based on the 'files' table
type File struct {
	ID           int64            `json:"id" db:"id"`
	FileName     string           `json:"fileName" db:"file_name"`
	FileURL      string           `json:"fileUrl" db:"file_url"`
	FileSize     int64            `json:"fileSize" db:"file_size"`
	FileType     string           `json:"fileType" db:"file_type"`
	ResourceType FileResourceType `json:"resourceType" db:"resource_type"`
	ResourceID   int64            `json:"resourceId" db:"resource_id"`
	UploadedBy   int64            `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
}
