package dto

type IDRequest struct {
	ID int `json:"id" binding:"required,gt=0"`
}

type IDsRequest struct {
	IDs []int `json:"ids" binding:"required,min=1,dive,gt=0"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type MethodsResponse struct {
	Methods []string `json:"methods"`
}
