package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Report statuses. Pending is the initial state; Under Investigation is set
// automatically on officer assignment; Resolved and Rejected are terminal
// and only ever set explicitly by a station administrator.
const (
	StatusPending            = "Pending"
	StatusUnderInvestigation = "Under Investigation"
	StatusResolved           = "Resolved"
	StatusRejected           = "Rejected"
)

// ValidStatus reports whether s is one of the fixed status values
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusUnderInvestigation, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Attachment describes one citizen-supplied file held by the storage provider
type Attachment struct {
	URL          string `bson:"url" json:"url"`
	PublicID     string `bson:"public_id" json:"publicId"`
	ResourceType string `bson:"resource_type" json:"resourceType"`
}

// Report represents a filed incident report. It is bound to the citizen who
// filed it and to a single police station, which together determine who may
// see or mutate it.
type Report struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username            string             `bson:"username" json:"username"`
	ReporterName        string             `bson:"user_name" json:"reporterName"`
	State               string             `bson:"state" json:"state"`
	District            string             `bson:"district" json:"district"`
	Address             string             `bson:"user_address" json:"address"`
	Mobile              string             `bson:"mobile" json:"mobile"`
	Category            string             `bson:"category" json:"category"`
	OtherCategory       string             `bson:"other_category,omitempty" json:"otherCategory,omitempty"`
	AccusedNames        []string           `bson:"accused_names" json:"accusedNames"`
	IncidentDate        primitive.DateTime `bson:"incident_date" json:"incidentDate"`
	Location            string             `bson:"location" json:"location"`
	PoliceStation       string             `bson:"police_station" json:"policeStation"`
	Description         string             `bson:"description" json:"description"`
	Attachments         []Attachment       `bson:"supporting_documents" json:"supportingDocuments"`
	Status              string             `bson:"fir_status" json:"firStatus"`
	FiledDate           primitive.DateTime `bson:"filed_date" json:"filedDate"`
	AssignedOfficerID   string             `bson:"assigned_officer_id,omitempty" json:"assignedOfficerId,omitempty"`
	AssignedOfficerName string             `bson:"assigned_officer_name,omitempty" json:"assignedOfficerName,omitempty"`
	Escalated           bool               `bson:"escalated,omitempty" json:"escalated,omitempty"`
}

// UpdateStatusRequest is the payload for an administrator status change
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignOfficerRequest is the payload for assigning a station officer
type AssignOfficerRequest struct {
	BadgeID string `json:"officer_id"`
}

// TimelineEvent is one entry of the derived report timeline
type TimelineEvent struct {
	Status    string             `json:"status"`
	Timestamp primitive.DateTime `json:"timestamp"`
	UpdatedBy string             `json:"updatedBy"`
	Remarks   string             `json:"remarks"`
}

// CategoryCount is one row of the per-station analytics summary
type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}
