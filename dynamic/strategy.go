package dynamic

//go:generate go tool stringer -type=Strategy -output=strategy_string.go

// Strategy is the way a Converter builds values.
type Strategy int

const (
	StrategyNone                  Strategy = iota // no way to convert
	StrategyTuple                                 // columns fill a tuple, nesting beyond seven
	StrategyRowConstructor                        // a constructor takes the whole Row
	StrategyPositionalConstructor                 // column i is constructor parameter i
	StrategyZeroAndSetters                        // a new row filled through setters matched by name
	StrategyPassThrough                           // the Row itself is the value
)
