package autoload

import "strings"

// builtinClasses are provided by the PHP runtime and its bundled extensions.
// They are known classes without a defining file. Keys are lower case
// because PHP class names are case-insensitive.
var builtinClasses = func() map[string]struct{} {
	names := []string{
		"stdClass", "Closure", "Generator", "WeakMap", "WeakReference", "Fiber",
		"Throwable", "Exception", "Error", "ErrorException", "TypeError", "ValueError",
		"ArithmeticError", "DivisionByZeroError", "ArgumentCountError", "CompileError", "ParseError",
		"UnhandledMatchError", "JsonException",
		"LogicException", "BadFunctionCallException", "BadMethodCallException", "DomainException",
		"InvalidArgumentException", "LengthException", "OutOfRangeException",
		"RuntimeException", "OutOfBoundsException", "OverflowException", "RangeException",
		"UnderflowException", "UnexpectedValueException",
		"Traversable", "Iterator", "IteratorAggregate", "ArrayAccess", "Countable", "Stringable",
		"Serializable", "JsonSerializable", "UnitEnum", "BackedEnum",
		"ArrayObject", "ArrayIterator", "SplObjectStorage", "SplStack", "SplQueue", "SplFixedArray",
		"SplPriorityQueue", "SplMinHeap", "SplMaxHeap", "SplDoublyLinkedList", "SplFileInfo",
		"SplFileObject", "SplTempFileObject", "DirectoryIterator", "FilesystemIterator",
		"RecursiveDirectoryIterator", "RecursiveIteratorIterator", "IteratorIterator", "AppendIterator",
		"CachingIterator", "LimitIterator", "InfiniteIterator", "NoRewindIterator", "CallbackFilterIterator",
		"DateTime", "DateTimeImmutable", "DateTimeInterface", "DateTimeZone", "DateInterval", "DatePeriod",
		"PDO", "PDOStatement", "PDOException",
		"ReflectionClass", "ReflectionObject", "ReflectionMethod", "ReflectionProperty",
		"ReflectionFunction", "ReflectionNamedType", "ReflectionException", "ReflectionEnum",
		"DOMDocument", "DOMElement", "DOMNode", "DOMXPath", "SimpleXMLElement", "XMLReader", "XMLWriter",
		"IntlDateFormatter", "NumberFormatter", "Collator", "Normalizer",
		"SensitiveParameter", "Attribute", "ReturnTypeWillChange", "AllowDynamicProperties", "Override",
	}
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[strings.ToLower(n)] = struct{}{}
	}
	return m
}()

// IsBuiltin reports whether name is a class bundled with PHP.
func IsBuiltin(name string) bool {
	_, ok := builtinClasses[strings.ToLower(name)]
	return ok
}
