package ledger

// 法规限制常量
const (
	// LegalMarginLimit 油耗超出技术规范值的法定上限（百分比）
	LegalMarginLimit = 20.0
	// marginEpsilon 浮点误差容差
	marginEpsilon = 0.001
)

// ConsumptionRate 计算百公里消耗率（升/100km 或 kWh/100km）
// 里程 <= 0 时返回 0
func ConsumptionRate(amount, distance float64) float64 {
	if distance <= 0 {
		return 0
	}
	return amount / distance * 100
}

// AmountUsed 按消耗率计算给定里程消耗的资源量
func AmountUsed(distance, rate float64) float64 {
	return distance * rate / 100
}

// RemainingLevel 计算剩余油量/电量，结果始终被限制在 [0, capacity]
func RemainingLevel(previous, used, added, capacity float64) float64 {
	level := previous - used + added
	if level < 0 {
		return 0
	}
	if level > capacity {
		return capacity
	}
	return level
}

// MarginPercent 计算实际消耗率超出参考消耗率的百分比
// 参考值 <= 0 时返回 0（缺失配置按零处理，不报错）
func MarginPercent(rate, referenceRate float64) float64 {
	if referenceRate <= 0 {
		return 0
	}
	return (rate/referenceRate - 1) * 100
}

// IsWithinLegalLimit 判断超耗百分比是否在法定 20% 上限以内
func IsWithinLegalLimit(margin float64) bool {
	return margin <= LegalMarginLimit+marginEpsilon
}

// BufferDistance 计算补偿里程：再行驶多少公里可使测算消耗率
// 回落到目标超耗范围以内。已达标时返回 0
func BufferDistance(amountFilled, distanceDriven, referenceRate, targetMarginFraction float64) float64 {
	if referenceRate <= 0 {
		return 0
	}
	targetRate := referenceRate * (1 + targetMarginFraction)
	required := amountFilled * 100 / targetRate
	if required <= distanceDriven {
		return 0
	}
	return required - distanceDriven
}
