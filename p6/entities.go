package p6

// The record types carry only the fields this tool requests. Anything else the
// service might return is ignored by the decoder.

type ResourceHour struct {
	ObjectID                int64               `xml:"ObjectId"`
	ProjectObjectID         Optional[int64]     `xml:"ProjectObjectId"`
	ResourceObjectID        int64               `xml:"ResourceObjectId"`
	Status                  string              `xml:"Status"`
	TimesheetPeriodObjectID int64               `xml:"TimesheetPeriodObjectId"`
	UnapprovedHours         Optional[Decimal]   `xml:"UnapprovedHours"`
	ApprovedHours           Optional[Decimal]   `xml:"ApprovedHours"`
	Date                    Optional[Timestamp] `xml:"Date"`
	ProjectName             string              `xml:"ProjectName"`
	LastUpdateDate          Timestamp           `xml:"LastUpdateDate"`
	LastUpdateUser          string              `xml:"LastUpdateUser"`
}

type Resource struct {
	ObjectID                 int64  `xml:"ObjectId"`
	Name                     string `xml:"Name"`
	TimesheetApprovalManager bool   `xml:"TimesheetApprovalManager"`
	UseTimesheets            bool   `xml:"UseTimesheets"`
}

type ResourceRate struct {
	EffectiveDate    Timestamp `xml:"EffectiveDate"`
	ResourceObjectID int64     `xml:"ResourceObjectId"`
}

type Timesheet struct {
	TimesheetPeriodObjectID int64  `xml:"TimesheetPeriodObjectId"`
	ResourceObjectID        int64  `xml:"ResourceObjectId"`
	Status                  string `xml:"Status"`
}

type ResourceAssignment struct {
	ResourceObjectID Optional[int64]     `xml:"ResourceObjectId"`
	ActualUnits      Optional[Decimal]   `xml:"ActualUnits"`
	ProjectID        string              `xml:"ProjectId"`
	ObjectID         int64               `xml:"ObjectId"`
	LastUpdateDate   Optional[Timestamp] `xml:"LastUpdateDate"`
	LastUpdateUser   string              `xml:"LastUpdateUser"`
}

type ResourceAssignmentPeriodActual struct {
	ResourceAssignmentObjectID int64     `xml:"ResourceAssignmentObjectId"`
	ActualUnits                Decimal   `xml:"ActualUnits"`
	FinancialPeriodObjectID    int64     `xml:"FinancialPeriodObjectId"`
	LastUpdateDate             Timestamp `xml:"LastUpdateDate"`
	LastUpdateUser             string    `xml:"LastUpdateUser"`
}
