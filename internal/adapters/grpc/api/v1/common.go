package apiv1

// IDRequest は ID だけを指定するリクエストです。
type IDRequest struct {
	ID string `json:"id"`
}

// CompanyIDRequest は企業 ID だけを指定するリクエストです。
type CompanyIDRequest struct {
	CompanyID string `json:"companyId"`
}
