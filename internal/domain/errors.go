package domain

import "errors"

// 完成流程和异议窗口的业务错误
// 这些错误都是调用方可以自行纠正的，handler 层会把它们转成普通的失败响应
var (
	ErrAlreadyReported        = errors.New("队长已经上报过这条排班记录")
	ErrAlreadyAdjudicated     = errors.New("主管已经裁定过这条排班记录")
	ErrAlreadyComplained      = errors.New("您已经对这条排班记录提出过异议")
	ErrComplaintWindowClosed  = errors.New("异议窗口已经关闭")
	ErrNotAdjudicatedComplete = errors.New("这条排班记录尚未被裁定为已完成，无法提出异议")
)
