package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/smartfir/fir-filing-api/api"
	"github.com/smartfir/fir-filing-api/config"
	"github.com/smartfir/fir-filing-api/databases"
	"github.com/smartfir/fir-filing-api/mailer"
	"github.com/smartfir/fir-filing-api/models"
	"github.com/smartfir/fir-filing-api/storage"
)

const incidentDateLayout = "2006-01-02T15:04"

// maxUploadBytes bounds the multipart form held in memory during submission
const maxUploadBytes = 32 << 20

// Report handles report lifecycle requests
type Report struct {
	RDB      databases.ReportDatabase
	ODB      databases.OfficerDatabase
	CDB      databases.CitizenDatabase
	Uploader storage.Uploader
	Feed     *Feed
}

// SubmitReportHandler files a new report for the authenticated citizen. All
// attachments must be durably stored before the record is committed; a single
// failed upload aborts the submission and the already-stored files are
// destroyed best-effort so nothing is orphaned.
func (re Report) SubmitReportHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}

	required := []string{"user-name", "state", "district", "user-address", "mobile",
		"category", "incident-date", "location", "police-station", "description"}
	for _, field := range required {
		if r.FormValue(field) == "" {
			config.ErrorStatus("missing required field", http.StatusBadRequest, w,
				fmt.Errorf("%s is required", field))
			return
		}
	}

	incidentDate, err := time.Parse(incidentDateLayout, r.FormValue("incident-date"))
	if err != nil {
		config.ErrorStatus("invalid incident date", http.StatusBadRequest, w, err)
		return
	}

	attachments, err := re.uploadAttachments(r)
	if err != nil {
		config.ErrorStatus("failed to store supporting documents", http.StatusBadGateway, w, err)
		return
	}

	report := models.Report{
		ID:                  primitive.NewObjectID(),
		Username:            authCtx.Username,
		ReporterName:        r.FormValue("user-name"),
		State:               r.FormValue("state"),
		District:            r.FormValue("district"),
		Address:             r.FormValue("user-address"),
		Mobile:              r.FormValue("mobile"),
		Category:            r.FormValue("category"),
		OtherCategory:       r.FormValue("other-category-input"),
		AccusedNames:        r.MultipartForm.Value["accused_names[]"],
		IncidentDate:        primitive.NewDateTimeFromTime(incidentDate),
		Location:            r.FormValue("location"),
		PoliceStation:       r.FormValue("police-station"),
		Description:         r.FormValue("description"),
		Attachments:         attachments,
		Status:              models.StatusPending,
		FiledDate:           primitive.NewDateTimeFromTime(time.Now().UTC()),
		AssignedOfficerName: "Unassigned",
	}
	if report.AccusedNames == nil {
		report.AccusedNames = []string{}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := re.RDB.InsertOne(ctx, report); err != nil {
		// the record never landed, so the stored files are orphans
		re.destroyAttachments(r, attachments)
		config.ErrorStatus("failed to create report", http.StatusInternalServerError, w, err)
		return
	}

	re.notifyFiled(r, report)

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{Message: "FIR submitted successfully!"})
}

// uploadAttachments stores every file in the submission. The first failure
// aborts the whole batch; files stored before the failure are destroyed
// best-effort so a rejected submission leaves nothing behind.
func (re Report) uploadAttachments(r *http.Request) ([]models.Attachment, error) {
	files := r.MultipartForm.File["file-upload"]
	attachments := []models.Attachment{}

	for _, header := range files {
		if header.Filename == "" {
			continue
		}
		file, err := header.Open()
		if err != nil {
			re.destroyAttachments(r, attachments)
			return nil, fmt.Errorf("open %s: %w", header.Filename, err)
		}

		stored, err := re.Uploader.Upload(r.Context(), file)
		file.Close()
		if err != nil {
			re.destroyAttachments(r, attachments)
			return nil, fmt.Errorf("upload %s: %w", header.Filename, err)
		}

		attachments = append(attachments, models.Attachment{
			URL:          stored.URL,
			PublicID:     stored.PublicID,
			ResourceType: stored.ResourceType,
		})
	}
	return attachments, nil
}

// destroyAttachments issues a best-effort delete per descriptor. Failures are
// logged per file and never aggregated into a caller-facing error.
func (re Report) destroyAttachments(r *http.Request, attachments []models.Attachment) {
	for _, doc := range attachments {
		if err := re.Uploader.Destroy(r.Context(), doc.PublicID, doc.ResourceType); err != nil {
			zap.S().With(err).Warnw("could not delete stored file",
				"publicId", doc.PublicID,
				"resourceType", doc.ResourceType,
			)
		}
	}
}

// notifyFiled performs the post-commit side effects of a submission: the
// acknowledgement email and the station live feed event. Both are best-effort.
func (re Report) notifyFiled(r *http.Request, report models.Report) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	citizen, err := re.CDB.FindOne(ctx, bson.M{"username": report.Username})
	if err != nil {
		zap.S().With(err).Debug("could not load citizen for acknowledgement email")
	} else {
		mailer.SendReportAcknowledgement(citizen.Email, report)
	}

	if re.Feed != nil {
		re.Feed.Broadcast(report.PoliceStation, FeedEvent{
			Event:    "fir_filed",
			ReportID: report.ID.Hex(),
			Category: report.Category,
			Station:  report.PoliceStation,
		})
	}
}

// ReportsByCitizenHandler returns the caller's reports, newest filing first
func (re Report) ReportsByCitizenHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := listOptions(r)
	dbResp, err := re.RDB.Find(ctx, bson.M{"username": authCtx.Username}, opts...)
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Report{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ReportsByStationHandler returns the reports filed against the caller's
// station, newest filing first, optionally filtered by status
func (re Report) ReportsByStationHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	filter := bson.M{"police_station": authCtx.Station}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidStatus(status) {
			config.ErrorStatus("invalid status filter", http.StatusBadRequest, w,
				fmt.Errorf("unknown status %q", status))
			return
		}
		filter["fir_status"] = status
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := listOptions(r)
	dbResp, err := re.RDB.Find(ctx, filter, opts...)
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Report{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ReportByIDHandler returns one report, visible only to the owning citizen or
// an administrator of the report's station
func (re Report) ReportByIDHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	report, status, err := re.loadScoped(r, authCtx)
	if err != nil {
		config.ErrorStatus(err.Error(), status, w, err)
		return
	}

	b, err := json.Marshal(report)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ReportTimelineHandler returns the derived status timeline for one report
func (re Report) ReportTimelineHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	report, status, err := re.loadScoped(r, authCtx)
	if err != nil {
		config.ErrorStatus(err.Error(), status, w, err)
		return
	}

	timeline := []models.TimelineEvent{
		{
			Status:    "Filed",
			Timestamp: report.FiledDate,
			UpdatedBy: report.ReporterName,
			Remarks:   "Initial report filed by the user.",
		},
	}
	if report.AssignedOfficerID != "" {
		timeline = append(timeline, models.TimelineEvent{
			Status:    models.StatusUnderInvestigation,
			Timestamp: report.FiledDate,
			UpdatedBy: report.AssignedOfficerName,
			Remarks:   fmt.Sprintf("Officer %s assigned to the case.", report.AssignedOfficerName),
		})
	}
	if report.Status == models.StatusResolved || report.Status == models.StatusRejected {
		timeline = append(timeline, models.TimelineEvent{
			Status:    report.Status,
			Timestamp: report.FiledDate,
			UpdatedBy: "Station Administrator",
			Remarks:   fmt.Sprintf("Report marked %s.", report.Status),
		})
	}

	b, err := json.Marshal(map[string][]models.TimelineEvent{"timeline": timeline})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CancelReportHandler removes a Pending report owned by the caller. The
// attachments are deleted best-effort first; the record deletion proceeds
// regardless of delete outcomes.
func (re Report) CancelReportHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	reportID, err := primitive.ObjectIDFromHex(mux.Vars(r)["fir_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	report, err := re.RDB.FindOne(ctx, bson.M{"_id": reportID})
	if err != nil {
		config.ErrorStatus("report not found", http.StatusNotFound, w, err)
		return
	}

	if report.Username != authCtx.Username {
		config.ErrorStatus("access denied, you can only cancel your own reports", http.StatusForbidden, w,
			errors.New("report owned by another citizen"))
		return
	}

	if report.Status != models.StatusPending {
		config.ErrorStatus("report cannot be cancelled", http.StatusConflict, w,
			fmt.Errorf("current status is %q", report.Status))
		return
	}

	re.destroyAttachments(r, report.Attachments)

	deleted, err := re.RDB.DeleteOne(ctx, bson.M{"_id": reportID})
	if err != nil || deleted == 0 {
		config.ErrorStatus("cancellation failed", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{Message: "FIR cancelled successfully."})
}

// UpdateStatusHandler sets a report's status. The filter includes the caller's
// station, so a report outside the administrator's scope reads as not found.
// Setting the current status again is a successful no-op.
func (re Report) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	reportID, err := primitive.ObjectIDFromHex(mux.Vars(r)["fir_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if !models.ValidStatus(req.Status) {
		config.ErrorStatus("invalid status", http.StatusBadRequest, w,
			fmt.Errorf("unknown status %q", req.Status))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	matched, err := re.RDB.UpdateOne(ctx,
		bson.M{"_id": reportID, "police_station": authCtx.Station},
		bson.M{"$set": bson.M{"fir_status": req.Status}},
	)
	if err != nil {
		config.ErrorStatus("failed to update report status", http.StatusInternalServerError, w, err)
		return
	}
	if matched == 0 {
		config.ErrorStatus("report not found", http.StatusNotFound, w,
			errors.New("no report with that id in this station"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{Message: "FIR status updated successfully"})
}

// AssignOfficerHandler assigns a station officer to a report and forces the
// status to Under Investigation. Officer and report must both resolve within
// the caller's station.
func (re Report) AssignOfficerHandler(w http.ResponseWriter, r *http.Request) {
	authCtx, _ := api.AuthFromContext(r.Context())

	reportID, err := primitive.ObjectIDFromHex(mux.Vars(r)["fir_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.AssignOfficerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.BadgeID == "" {
		config.ErrorStatus("officer badge id is required", http.StatusBadRequest, w,
			errors.New("missing officer_id"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	officer, err := re.ODB.FindOne(ctx, bson.M{
		"badge_id":     req.BadgeID,
		"station_name": authCtx.Station,
	})
	if err != nil {
		config.ErrorStatus("officer not found in this station", http.StatusNotFound, w, err)
		return
	}

	matched, err := re.RDB.UpdateOne(ctx,
		bson.M{"_id": reportID, "police_station": authCtx.Station},
		bson.M{"$set": bson.M{
			"assigned_officer_id":   officer.BadgeID,
			"assigned_officer_name": officer.Name,
			"fir_status":            models.StatusUnderInvestigation,
		}},
	)
	if err != nil {
		config.ErrorStatus("failed to assign officer", http.StatusInternalServerError, w, err)
		return
	}
	if matched == 0 {
		config.ErrorStatus("report not found", http.StatusNotFound, w,
			errors.New("no report with that id in this station"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{
		Message: fmt.Sprintf("Successfully assigned Officer %s.", officer.Name),
	})
}

// loadScoped fetches the report named in the URL and enforces visibility:
// the owning citizen or an administrator of the report's station. Admin scope
// misses read as not found so foreign station reports are never revealed.
func (re Report) loadScoped(r *http.Request, authCtx api.AuthContext) (*models.Report, int, error) {
	reportID, err := primitive.ObjectIDFromHex(mux.Vars(r)["fir_id"])
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("failed to get objectID from Hex")
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	report, err := re.RDB.FindOne(ctx, bson.M{"_id": reportID})
	if err != nil {
		return nil, http.StatusNotFound, errors.New("report not found")
	}

	switch authCtx.Role {
	case api.RoleCitizen:
		if report.Username != authCtx.Username {
			return nil, http.StatusForbidden, errors.New("access denied")
		}
	case api.RoleAdmin:
		if report.PoliceStation != authCtx.Station {
			return nil, http.StatusNotFound, errors.New("report not found")
		}
	default:
		return nil, http.StatusUnauthorized, errors.New("unauthorized")
	}

	return report, http.StatusOK, nil
}

// listOptions builds the find options shared by the listing endpoints:
// newest filing first, with optional limit/page pagination.
func listOptions(r *http.Request) []*options.FindOptions {
	opts := []*options.FindOptions{
		options.Find().SetSort(bson.D{{Key: "filed_date", Value: -1}}),
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return opts
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return append(opts, databases.NewMongoPaginate(limit, page))
}
